package gateway

import (
	"fmt"
	"strings"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/profile"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
)

var categoryBriefs = map[speech.Category]string{
	speech.CategoryDaily: "Make light small talk about campus life, the weather or meals.",
	speech.CategoryCheer: "Encourage the student about their progress on points and challenges.",
}

func buildPrompt(category speech.Category, p profile.Profile) string {
	mascot := strings.TrimSpace(p.MascotName)
	if mascot == "" {
		mascot = "the campus mascot"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a friendly mascot in a campus companion app. ", mascot)
	b.WriteString("Reply with exactly one short sentence for a speech bubble, no quotes, no emoji. ")
	b.WriteString(categoryBriefs[category])
	fmt.Fprintf(&b, "\nStudent: %s.", p.DisplayName())
	if p.Major != "" {
		fmt.Fprintf(&b, " Major: %s.", p.Major)
	}
	if category == speech.CategoryCheer {
		fmt.Fprintf(&b, " Points: %d. Current streak: %d days.", p.Points, p.Streak)
	}
	return b.String()
}
