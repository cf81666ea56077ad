package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"resumescreen/internal/types"
)

// RoleMapping lists the roles a single skill points to
type RoleMapping struct {
	Skill string   `yaml:"skill" json:"skill"`
	Roles []string `yaml:"roles" json:"roles"`
}

// EducationAdvice lists skills recommended for an education field
type EducationAdvice struct {
	Field  string   `yaml:"field" json:"field"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Catalog holds the lookup tables used by screening. A Catalog is immutable
// once built; reloads produce a new value.
type Catalog struct {
	Skills                []string          `yaml:"skills" json:"skills"`
	SkillRoles            []RoleMapping     `yaml:"skillRoles" json:"skillRoles"`
	RoleFeedback          map[string]string `yaml:"roleFeedback" json:"roleFeedback"`
	DefaultFeedback       string            `yaml:"defaultFeedback" json:"defaultFeedback"`
	EducationSkills       []EducationAdvice `yaml:"educationSkills" json:"educationSkills"`
	DefaultRecommendation string            `yaml:"defaultRecommendation" json:"defaultRecommendation"`

	matchers []skillMatcher
	roles    map[string][]string
}

type skillMatcher struct {
	name    string
	pattern *regexp.Regexp
}

// Default returns the built-in tables.
func Default() *Catalog {
	c := &Catalog{
		Skills: []string{
			"Python", "Java", "C++", "Machine Learning", "Data Science",
			"SQL", "AWS", "Django", "Cloud Computing",
		},
		SkillRoles: []RoleMapping{
			{Skill: "Python", Roles: []string{"Software Developer", "Data Scientist"}},
			{Skill: "Java", Roles: []string{"Backend Developer", "Software Engineer"}},
			{Skill: "Machine Learning", Roles: []string{"ML Engineer", "Data Scientist"}},
			{Skill: "Data Science", Roles: []string{"Data Scientist", "Business Analyst"}},
			{Skill: "SQL", Roles: []string{"Database Administrator", "Data Analyst"}},
			{Skill: "AWS", Roles: []string{"Cloud Engineer", "DevOps Engineer"}},
			{Skill: "Django", Roles: []string{"Full Stack Developer", "Web Developer"}},
			{Skill: "Cloud Computing", Roles: []string{"Cloud Engineer", "Solutions Architect"}},
		},
		RoleFeedback: map[string]string{
			"Software Developer":   "Consider adding more programming languages and frameworks to showcase versatility.",
			"Data Scientist":       "Include more projects or experience related to machine learning and data visualization.",
			"Backend Developer":    "Mention API development experience, databases, and server-side optimization.",
			"Cloud Engineer":       "Highlight cloud certifications, deployment strategies, and security knowledge.",
			"Full Stack Developer": "Showcase frontend and backend expertise with relevant tech stacks.",
		},
		DefaultFeedback: "Ensure your resume is well-structured and emphasizes relevant skills.",
		EducationSkills: []EducationAdvice{
			{Field: "Computer Science", Skills: []string{"Python", "Java", "Machine Learning", "Cloud Computing", "Data Structures & Algorithms"}},
			{Field: "Information Technology", Skills: []string{"Networking", "Cybersecurity", "Cloud Computing", "Web Development"}},
			{Field: "Business Administration", Skills: []string{"Excel", "Data Analysis", "Marketing Analytics", "Project Management"}},
			{Field: "Mechanical Engineering", Skills: []string{"AutoCAD", "MATLAB", "SolidWorks", "Manufacturing Processes"}},
		},
		DefaultRecommendation: "General Recommendations: Communication Skills, Problem-Solving, Teamwork, Leadership",
	}

	if err := c.compile(); err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Validate checks that the tables are usable.
func (c *Catalog) Validate() error {
	if len(c.Skills) == 0 {
		return fmt.Errorf("skill vocabulary is empty")
	}
	seen := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if err := checkEntry("skill", s); err != nil {
			return err
		}
		key := strings.ToLower(s)
		if seen[key] {
			return fmt.Errorf("duplicate skill %q", s)
		}
		seen[key] = true
	}

	for _, m := range c.SkillRoles {
		if err := checkEntry("skill", m.Skill); err != nil {
			return err
		}
		if len(m.Roles) == 0 {
			return fmt.Errorf("skill %q maps to no roles", m.Skill)
		}
		for _, r := range m.Roles {
			if err := checkEntry("role", r); err != nil {
				return err
			}
		}
	}

	for role := range c.RoleFeedback {
		if err := checkEntry("role", role); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.DefaultFeedback) == "" {
		return fmt.Errorf("default feedback is empty")
	}

	for _, e := range c.EducationSkills {
		if err := checkEntry("education field", e.Field); err != nil {
			return err
		}
		if len(e.Skills) == 0 {
			return fmt.Errorf("education field %q has no recommended skills", e.Field)
		}
	}
	if strings.TrimSpace(c.DefaultRecommendation) == "" {
		return fmt.Errorf("default recommendation is empty")
	}

	return nil
}

func checkEntry(kind, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("empty %s entry", kind)
	}
	if trimmed == types.NotAvailable {
		return fmt.Errorf("%s entry %q is reserved", kind, value)
	}
	return nil
}

func (c *Catalog) compile() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.matchers = make([]skillMatcher, 0, len(c.Skills))
	for _, skill := range c.Skills {
		c.matchers = append(c.matchers, skillMatcher{name: skill, pattern: skillPattern(skill)})
	}

	c.roles = make(map[string][]string, len(c.SkillRoles))
	for _, m := range c.SkillRoles {
		c.roles[m.Skill] = append(c.roles[m.Skill], m.Roles...)
	}
	return nil
}

// skillPattern matches a vocabulary term case-insensitively as a whole word.
// Boundaries are explicit so terms ending in symbols ("C++") still match.
func skillPattern(skill string) *regexp.Regexp {
	words := strings.Fields(skill)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	body := strings.Join(words, `\s+`)
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + body + `(?:$|[^\p{L}\p{N}_])`)
}

// MatchSkills returns the vocabulary terms found in text, in vocabulary order
// and spelled as in the vocabulary.
func (c *Catalog) MatchSkills(text string) []string {
	var found []string
	for _, m := range c.matchers {
		if m.pattern.MatchString(text) {
			found = append(found, m.name)
		}
	}
	return found
}

// Roles returns the roles mapped to an exact skill name.
func (c *Catalog) Roles(skill string) []string {
	return c.roles[skill]
}

// Feedback returns the advice for an exact role name, falling back to the
// default feedback.
func (c *Catalog) Feedback(role string) string {
	if fb, ok := c.RoleFeedback[role]; ok {
		return fb
	}
	return c.DefaultFeedback
}

// Recommendation returns the skills recommended for the first education field
// contained in education (case-insensitive), or the default recommendation.
func (c *Catalog) Recommendation(education string) string {
	if strings.TrimSpace(education) == "" || education == types.NotAvailable {
		return c.DefaultRecommendation
	}
	lower := strings.ToLower(education)
	for _, e := range c.EducationSkills {
		if strings.Contains(lower, strings.ToLower(e.Field)) {
			return strings.Join(e.Skills, ", ")
		}
	}
	return c.DefaultRecommendation
}
