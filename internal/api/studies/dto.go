package studies

import (
	"strings"

	"bible-study-app/internal/ingest"
)

// newNodePrefix marks client-side placeholder ids on unsaved nodes. The
// sentinel is resolved here, once, into an ingest.NodeRef.
const newNodePrefix = "new-"

func parseNodeRef(raw string) ingest.NodeRef {
	if raw == "" || strings.HasPrefix(raw, newNodePrefix) {
		return ingest.NewNode()
	}
	return ingest.ExistingNode(raw)
}

// ---------- requests

type QuestionInput struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Order        int    `json:"order"`
}

type DayInput struct {
	DayNumber int             `json:"day_number"`
	Title     string          `json:"title"`
	Content   *string         `json:"content"`
	Scripture *string         `json:"scripture"`
	Questions []QuestionInput `json:"questions"`
}

type WeekInput struct {
	WeekNumber  int        `json:"week_number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Days        []DayInput `json:"days"`
}

// CreateStudyRequest carries a fully-resolved parsed study plus publish
// flags. Field-level validation happens in the ingest validator, not here,
// so soft problems come back as warnings instead of a bind failure.
type CreateStudyRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Author      string      `json:"author"`
	IsPublished bool        `json:"is_published"`
	IsPremium   bool        `json:"is_premium"`
	Price       float64     `json:"price"`
	Weeks       []WeekInput `json:"weeks"`
}

func (r CreateStudyRequest) toParsed() (ingest.ParsedStudy, ingest.CreateOptions) {
	parsed := ingest.ParsedStudy{
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		Weeks:       make([]ingest.ParsedWeek, 0, len(r.Weeks)),
	}
	for _, w := range r.Weeks {
		week := ingest.ParsedWeek{
			WeekNumber:  w.WeekNumber,
			Title:       w.Title,
			Description: w.Description,
			Days:        make([]ingest.ParsedDay, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			day := ingest.ParsedDay{
				DayNumber: d.DayNumber,
				Title:     d.Title,
				Content:   d.Content,
				Scripture: d.Scripture,
				Questions: make([]ingest.ParsedQuestion, 0, len(d.Questions)),
			}
			for _, q := range d.Questions {
				day.Questions = append(day.Questions, ingest.ParsedQuestion{
					QuestionText: q.QuestionText,
					QuestionType: q.QuestionType,
					Order:        q.Order,
				})
			}
			week.Days = append(week.Days, day)
		}
		parsed.Weeks = append(parsed.Weeks, week)
	}

	opts := ingest.CreateOptions{
		IsPublished: r.IsPublished,
		IsPremium:   r.IsPremium,
		Price:       r.Price,
	}
	return parsed, opts
}

type QuestionEditInput struct {
	ID           string `json:"id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Order        int    `json:"order"`
}

type DayEditInput struct {
	ID        string              `json:"id"`
	DayNumber int                 `json:"day_number"`
	Title     string              `json:"title"`
	Content   *string             `json:"content"`
	Scripture *string             `json:"scripture"`
	Questions []QuestionEditInput `json:"questions"`
}

type WeekEditInput struct {
	ID          string         `json:"id"`
	WeekNumber  int            `json:"week_number"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Days        []DayEditInput `json:"days"`
}

type UpdateStudyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	IsPublished bool            `json:"is_published"`
	IsPremium   bool            `json:"is_premium"`
	Price       float64         `json:"price"`
	Weeks       []WeekEditInput `json:"weeks"`
}

func (r UpdateStudyRequest) toEdit() ingest.StudyEdit {
	edit := ingest.StudyEdit{
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		IsPublished: r.IsPublished,
		IsPremium:   r.IsPremium,
		Price:       r.Price,
		Weeks:       make([]ingest.WeekEdit, 0, len(r.Weeks)),
	}
	for _, w := range r.Weeks {
		week := ingest.WeekEdit{
			Ref:         parseNodeRef(w.ID),
			WeekNumber:  w.WeekNumber,
			Title:       w.Title,
			Description: w.Description,
			Days:        make([]ingest.DayEdit, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			day := ingest.DayEdit{
				Ref:       parseNodeRef(d.ID),
				DayNumber: d.DayNumber,
				Title:     d.Title,
				Content:   d.Content,
				Scripture: d.Scripture,
				Questions: make([]ingest.QuestionEdit, 0, len(d.Questions)),
			}
			for _, q := range d.Questions {
				day.Questions = append(day.Questions, ingest.QuestionEdit{
					Ref:          parseNodeRef(q.ID),
					QuestionText: q.QuestionText,
					QuestionType: q.QuestionType,
					Order:        q.Order,
				})
			}
			week.Days = append(week.Days, day)
		}
		edit.Weeks = append(edit.Weeks, week)
	}
	return edit
}
