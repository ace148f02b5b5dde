package extraction

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/profile-agent/internal/types"
)

// Section roots recognised on portfolio pages, in priority order.
const (
	aboutRoots        = "#about, section.about, [data-section=about]"
	experienceItems   = "#experience .experience-item, [data-section=experience] [data-item], .timeline .timeline-item"
	educationItems    = "#education .education-item, [data-section=education] [data-item]"
	skillsRoots       = "#skills, section.skills, [data-section=skills]"
	testimonialItems  = "#testimonials .testimonial, [data-section=testimonials] [data-item], .testimonial-card"
	heroRoots         = "#home, .hero, header"
	achievementsItems = "ul li, .achievement"
)

func basicInfoChain() []strategy[types.BasicInfo] {
	return []strategy[types.BasicInfo]{
		{name: "json-ld person", run: basicInfoFromJSONLD},
		{name: "data-field markers", run: basicInfoFromDataFields},
		{name: "hero section", run: basicInfoFromHero},
	}
}

func aboutChain() []strategy[types.About] {
	return []strategy[types.About]{
		{name: "about section", run: aboutFromSection},
		{name: "meta description", run: aboutFromMeta},
	}
}

func experienceChain() []strategy[[]types.Experience] {
	return []strategy[[]types.Experience]{
		{name: "experience items", run: experienceFromItems},
	}
}

func educationChain() []strategy[[]types.Education] {
	return []strategy[[]types.Education]{
		{name: "education items", run: educationFromItems},
	}
}

func skillsChain() []strategy[types.Skills] {
	return []strategy[types.Skills]{
		{name: "grouped skills", run: skillsFromGroups},
		{name: "skill list", run: skillsFromList},
	}
}

func testimonialsChain() []strategy[[]types.Testimonial] {
	return []strategy[[]types.Testimonial]{
		{name: "testimonial items", run: testimonialsFromItems},
	}
}

// jsonLDPerson is the subset of schema.org/Person read from ld+json blocks.
type jsonLDPerson struct {
	Type     any    `json:"@type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JobTitle string `json:"jobTitle"`
	Address  any    `json:"address"`
}

func (p jsonLDPerson) isPerson() bool {
	switch t := p.Type.(type) {
	case string:
		return t == "Person"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Person" {
				return true
			}
		}
	}
	return false
}

func (p jsonLDPerson) location() string {
	switch a := p.Address.(type) {
	case string:
		return a
	case map[string]any:
		parts := make([]string, 0, 2)
		for _, key := range []string{"addressLocality", "addressCountry"} {
			if s, ok := a[key].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func basicInfoFromJSONLD(doc *goquery.Document) (types.BasicInfo, bool) {
	var info types.BasicInfo
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		var candidates []jsonLDPerson
		if strings.HasPrefix(raw, "[") {
			if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
				return true
			}
		} else {
			var one jsonLDPerson
			if err := json.Unmarshal([]byte(raw), &one); err != nil {
				return true
			}
			candidates = append(candidates, one)
		}
		for _, p := range candidates {
			if p.isPerson() && strings.TrimSpace(p.Name) != "" {
				info = types.BasicInfo{
					Name:     strings.TrimSpace(p.Name),
					Email:    strings.TrimPrefix(strings.TrimSpace(p.Email), "mailto:"),
					Title:    strings.TrimSpace(p.JobTitle),
					Location: p.location(),
				}
				found = true
				return false
			}
		}
		return true
	})
	return info, found
}

func basicInfoFromDataFields(doc *goquery.Document) (types.BasicInfo, bool) {
	info := types.BasicInfo{
		Name:     text(doc.Find(`[data-field="name"]`).First()),
		Email:    text(doc.Find(`[data-field="email"]`).First()),
		Title:    text(doc.Find(`[data-field="title"]`).First()),
		Location: text(doc.Find(`[data-field="location"]`).First()),
	}
	return info, info.Name != ""
}

func basicInfoFromHero(doc *goquery.Document) (types.BasicInfo, bool) {
	hero := doc.Find(heroRoots).First()
	if hero.Length() == 0 {
		return types.BasicInfo{}, false
	}
	info := types.BasicInfo{
		Name:     text(hero.Find("h1").First()),
		Title:    text(hero.Find("h2, .subtitle, .role").First()),
		Location: text(hero.Find(".location").First()),
		Email:    mailto(doc),
	}
	return info, info.Name != ""
}

func mailto(doc *goquery.Document) string {
	href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href")
	if !ok {
		return ""
	}
	addr := strings.TrimPrefix(href, "mailto:")
	if i := strings.Index(addr, "?"); i >= 0 {
		addr = addr[:i]
	}
	return strings.TrimSpace(addr)
}

func aboutFromSection(doc *goquery.Document) (types.About, bool) {
	root := doc.Find(aboutRoots).First()
	if root.Length() == 0 {
		return types.About{}, false
	}
	about := types.About{
		Summary:    text(root.Find("p").First()),
		Highlights: texts(root.Find("li")),
	}
	return about, about.Summary != ""
}

func aboutFromMeta(doc *goquery.Document) (types.About, bool) {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	content = strings.TrimSpace(content)
	return types.About{Summary: content, Highlights: []string{}}, content != ""
}

func experienceFromItems(doc *goquery.Document) ([]types.Experience, bool) {
	var items []types.Experience
	doc.Find(experienceItems).Each(func(_ int, s *goquery.Selection) {
		exp := types.Experience{
			Title:        text(s.Find(".title, h3").First()),
			Company:      text(s.Find(".company, h4").First()),
			Duration:     text(s.Find(".duration, .date, time").First()),
			Location:     text(s.Find(".location").First()),
			Achievements: texts(s.Find(achievementsItems)),
		}
		if exp.Title != "" {
			items = append(items, exp)
		}
	})
	return items, len(items) > 0
}

func educationFromItems(doc *goquery.Document) ([]types.Education, bool) {
	var items []types.Education
	doc.Find(educationItems).Each(func(_ int, s *goquery.Selection) {
		edu := types.Education{
			Institution: text(s.Find(".institution, h3").First()),
			Degree:      text(s.Find(".degree").First()),
			Field:       text(s.Find(".field").First()),
			Duration:    text(s.Find(".duration, .date, time").First()),
			Location:    text(s.Find(".location").First()),
		}
		if edu.Institution != "" {
			items = append(items, edu)
		}
	})
	return items, len(items) > 0
}

func skillsFromGroups(doc *goquery.Document) (types.Skills, bool) {
	root := doc.Find(skillsRoots).First()
	if root.Length() == 0 {
		return types.Skills{}, false
	}
	skills := types.Skills{
		Technical: texts(root.Find(`.technical li, [data-skill-type="technical"]`)),
		Soft:      texts(root.Find(`.soft li, [data-skill-type="soft"]`)),
	}
	return skills, len(skills.Technical)+len(skills.Soft) > 0
}

func skillsFromList(doc *goquery.Document) (types.Skills, bool) {
	technical := texts(doc.Find(skillsRoots).First().Find("li, .skill"))
	if len(technical) == 0 {
		technical = texts(doc.Find(".skill"))
	}
	return types.Skills{Technical: technical, Soft: []string{}}, len(technical) > 0
}

func testimonialsFromItems(doc *goquery.Document) ([]types.Testimonial, bool) {
	var items []types.Testimonial
	doc.Find(testimonialItems).Each(func(_ int, s *goquery.Selection) {
		t := types.Testimonial{
			Name:        text(s.Find(".name, cite").First()),
			Position:    text(s.Find(".position").First()),
			Company:     text(s.Find(".company").First()),
			Testimonial: strings.Trim(text(s.Find("blockquote, .quote, p").First()), `"“”`),
		}
		if t.Testimonial != "" {
			items = append(items, t)
		}
	})
	return items, len(items) > 0
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// texts returns the non-empty, de-duplicated texts of a selection.
func texts(s *goquery.Selection) []string {
	out := []string{}
	seen := map[string]bool{}
	s.Each(func(_ int, item *goquery.Selection) {
		if t := text(item); t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	})
	return out
}
