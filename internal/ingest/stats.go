package ingest

import "bible-study-app/internal/domain/studies"

type StudyStats struct {
	TotalWeeks     int `json:"total_weeks"`
	TotalDays      int `json:"total_days"`
	TotalQuestions int `json:"total_questions"`
}

// CalcStats aggregates counts over a parsed tree, for logging and audit.
func CalcStats(p ParsedStudy) StudyStats {
	var s StudyStats
	s.TotalWeeks = len(p.Weeks)
	for _, w := range p.Weeks {
		s.TotalDays += len(w.Days)
		for _, d := range w.Days {
			s.TotalQuestions += len(d.Questions)
		}
	}
	return s
}

func statsOf(st *studies.Study) StudyStats {
	var s StudyStats
	s.TotalWeeks = len(st.Weeks)
	for _, w := range st.Weeks {
		s.TotalDays += len(w.Days)
		for _, d := range w.Days {
			s.TotalQuestions += len(d.Questions)
		}
	}
	return s
}
