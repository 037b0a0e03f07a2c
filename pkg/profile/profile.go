// Package profile manages the persisted teacher profile used to build
// personalized system prompts.
package profile

import (
	"time"

	"ai4edu_cli/pkg/storage"
)

// Subject identifies the taught subject. Anything outside the fixed set
// normalizes to SubjectMath.
type Subject string

const (
	SubjectMath      Subject = "math"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBiology   Subject = "biology"
	SubjectChinese   Subject = "chinese"
	SubjectEnglish   Subject = "english"
	SubjectHistory   Subject = "history"
	SubjectGeography Subject = "geography"
	SubjectPolitics  Subject = "politics"
)

// Subjects lists all valid subjects in display order.
var Subjects = []Subject{
	SubjectMath,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectChinese,
	SubjectEnglish,
	SubjectHistory,
	SubjectGeography,
	SubjectPolitics,
}

var subjectNames = map[Subject]string{
	SubjectMath:      "数学",
	SubjectPhysics:   "物理",
	SubjectChemistry: "化学",
	SubjectBiology:   "生物",
	SubjectChinese:   "语文",
	SubjectEnglish:   "英语",
	SubjectHistory:   "历史",
	SubjectGeography: "地理",
	SubjectPolitics:  "政治",
}

// Normalize maps an arbitrary string to a valid Subject, defaulting to math.
func Normalize(s string) Subject {
	if _, ok := subjectNames[Subject(s)]; ok {
		return Subject(s)
	}
	return SubjectMath
}

// Name returns the localized display name for the subject.
func (s Subject) Name() string {
	if name, ok := subjectNames[s]; ok {
		return name
	}
	return subjectNames[SubjectMath]
}

// TeacherProfile describes the teacher the assistant works for. JSON tags
// match the desktop app's storage layout.
type TeacherProfile struct {
	Name            string  `json:"name"`
	School          string  `json:"school"`
	Position        string  `json:"position"`
	Subject         Subject `json:"subject"`
	GradeLevel      string  `json:"gradeLevel"`
	ClassSize       int     `json:"classSize"`
	ClassCount      int     `json:"classCount"`
	TextbookVersion string  `json:"textbookVersion"`
	ExamRegion      string  `json:"examRegion"`
	UpdatedAt       string  `json:"updatedAt"`
}

// Default returns the baseline profile used to backfill missing fields.
func Default() TeacherProfile {
	return TeacherProfile{
		Position:        "数学教师",
		Subject:         SubjectMath,
		GradeLevel:      "高一",
		ClassSize:       45,
		ClassCount:      1,
		TextbookVersion: "人教A版",
		ExamRegion:      "新高考I卷",
		UpdatedAt:       time.Now().Format(time.RFC3339),
	}
}

// Load reads the profile from the store. Returns nil when no profile has
// been saved or the stored record is unreadable.
func Load(store *storage.Store) *TeacherProfile {
	var p TeacherProfile
	ok, err := store.Get(storage.KeyTeacherProfile, &p)
	if !ok || err != nil {
		return nil
	}

	defaults := Default()
	p.Subject = Normalize(string(p.Subject))
	if p.Position == "" {
		p.Position = defaults.Position
	}
	if p.GradeLevel == "" {
		p.GradeLevel = defaults.GradeLevel
	}
	if p.ClassSize <= 0 {
		p.ClassSize = defaults.ClassSize
	}
	if p.ClassCount <= 0 {
		p.ClassCount = defaults.ClassCount
	}
	if p.TextbookVersion == "" {
		p.TextbookVersion = defaults.TextbookVersion
	}
	if p.ExamRegion == "" {
		p.ExamRegion = defaults.ExamRegion
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = time.Now().Format(time.RFC3339)
	}
	return &p
}

// Save normalizes the profile, stamps UpdatedAt and writes it through.
func Save(store *storage.Store, p TeacherProfile) (TeacherProfile, error) {
	p.Subject = Normalize(string(p.Subject))
	defaults := Default()
	if p.ClassSize <= 0 {
		p.ClassSize = defaults.ClassSize
	}
	if p.ClassCount <= 0 {
		p.ClassCount = defaults.ClassCount
	}
	p.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := store.Set(storage.KeyTeacherProfile, p); err != nil {
		return TeacherProfile{}, err
	}
	return p, nil
}

// Has reports whether a usable profile (name, school and position all set)
// exists in the store.
func Has(store *storage.Store) bool {
	p := Load(store)
	return p != nil && p.Name != "" && p.School != "" && p.Position != ""
}
