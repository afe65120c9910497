// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"
)

// systemPrompt frames the model as a flashcard writer for technical notes.
const systemPrompt = "You are an expert in helping programmers study technical notes using Anki flashcards."

// cardPromptTmpl is the user prompt sent for each note. The output rules
// match what the sanitize package accepts.
var cardPromptTmpl = template.Must(template.New("cards").Parse(`You are a world-class Anki flashcard creator that helps students create flashcards that help them remember facts, concepts, and ideas from files. You will be given a file's content.

1. Identify key high-level concepts and ideas presented, including relevant equations. If the file is math or physics-heavy, focus on concepts. If the file isn't heavy on concepts, focus on facts.
2. Then use your own knowledge of the concept, ideas, or facts to flesh out any additional details (e.g. relevant facts, dates, and equations) so that every flashcard is self-contained.
3. Make question-answer cards based on the file.
4. Keep the questions and answers roughly in the same order as they appear in the file itself.

Output format:
- Put each flashcard on its own line: the question, a single tab character, then the answer.
- Do not include a header row such as "Question" and "Answer".
- Do not number the cards and do not wrap the output in a code block.
- When writing math, wrap inline math in \( ... \) (e.g. \( a^2+b^2=c^2 \)) and block math in \[ ... \].
- Do not include any text other than the flashcards.

FILE TO PROCESS:
{{.Content}}
`))

// renderPrompt executes the card prompt template with the given note content.
func renderPrompt(content string) (string, error) {
	var buf bytes.Buffer
	if err := cardPromptTmpl.Execute(&buf, struct{ Content string }{Content: content}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
