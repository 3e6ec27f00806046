package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Maximum key points pulled from source text for the discussion.
const maxKeyPoints = 5

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	pageNumberRegex = regexp.MustCompile(`\b\d+\s*of\s*\d+\b`)
)

// GenerateDialogue turns plain source text into a two-host dialogue
// script in the "Host X: line" format Parse understands. It is a
// deliberately trivial summarizer: the interesting work in this
// project is downstream of the script, not in producing it.
func GenerateDialogue(source string) string {
	cleaned := cleanSource(source)
	points := extractKeyPoints(cleaned, maxKeyPoints)

	var b strings.Builder

	topic := "an interesting topic"
	if len(points) > 0 {
		topic = points[0]
	}

	b.WriteString("Host A: Welcome to today's episode! I'm excited to dive into this document.\n")
	b.WriteString("Host B: Me too! There are some really interesting points to discuss.\n")
	b.WriteString("Host A: Can you give our listeners a quick overview of what it covers?\n")
	fmt.Fprintf(&b, "Host B: Sure thing! It appears to be about %s.\n", topic)

	for i, point := range points {
		if i%2 == 0 {
			fmt.Fprintf(&b, "Host A: One thing that caught my attention was this: '%s'. What do you think?\n", point)
			b.WriteString("Host B: That's fascinating! It suggests there's a deeper meaning here.\n")
		} else {
			fmt.Fprintf(&b, "Host B: Another interesting aspect is '%s'. Did you notice how that connects to earlier points?\n", point)
			b.WriteString("Host A: Absolutely! It builds on those ideas and takes them in a new direction.\n")
		}
	}

	b.WriteString("Host A: Before we wrap up, what's your main takeaway?\n")
	b.WriteString("Host B: How interconnected all these points are. Thanks for joining us today!\n")
	b.WriteString("Host A: Until next time, keep learning and stay curious!\n")

	return b.String()
}

// cleanSource strips noise commonly found in extracted document text.
func cleanSource(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = pageNumberRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// extractKeyPoints picks the first substantial sentences of the text.
func extractKeyPoints(text string, max int) []string {
	sentences := strings.Split(text, ".")

	points := make([]string, 0, max)
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			points = append(points, s)
			if len(points) >= max {
				break
			}
		}
	}
	return points
}
