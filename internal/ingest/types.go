package ingest

// ParsedStudy is the fully-resolved tree handed over by the document parser.
// The ingest engine never sees raw documents or clarification rounds.
type ParsedStudy struct {
	Title       string
	Description string
	Author      string
	Weeks       []ParsedWeek
}

type ParsedWeek struct {
	WeekNumber  int
	Title       string
	Description string
	Days        []ParsedDay
}

type ParsedDay struct {
	DayNumber int
	Title     string
	Content   *string
	Scripture *string
	Questions []ParsedQuestion
}

type ParsedQuestion struct {
	QuestionText string
	QuestionType string
	Order        int
}

type CreateOptions struct {
	IsPublished bool
	IsPremium   bool
	Price       float64
}

// NodeRef says whether an edited node refers to a persisted row or is new.
// It is decided once when the request is decoded; the diff logic never
// inspects identifier strings.
type NodeRef struct {
	id string
}

func NewNode() NodeRef { return NodeRef{} }

func ExistingNode(id string) NodeRef { return NodeRef{id: id} }

// Existing returns the persisted identifier, if any.
func (r NodeRef) Existing() (string, bool) { return r.id, r.id != "" }

// StudyEdit is a client-submitted tree to reconcile against persisted state.
// Study scalars are overwritten wholesale; omitted fields become zero values.
type StudyEdit struct {
	Title       string
	Description string
	Author      string
	IsPublished bool
	IsPremium   bool
	Price       float64
	Weeks       []WeekEdit
}

type WeekEdit struct {
	Ref         NodeRef
	WeekNumber  int
	Title       string
	Description string
	Days        []DayEdit
}

type DayEdit struct {
	Ref       NodeRef
	DayNumber int
	Title     string
	Content   *string
	Scripture *string
	Questions []QuestionEdit
}

type QuestionEdit struct {
	Ref          NodeRef
	QuestionText string
	QuestionType string
	Order        int
}
