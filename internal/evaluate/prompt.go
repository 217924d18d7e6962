package evaluate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a supportive onboarding coach for new missionary training organization volunteers. A trainee is working through self-paced training questions and you judge their free-text answers.

Rules:
- Judge the answer ONLY against the acceptance criteria you are given, not against your own idea of a complete answer.
- Be generous with phrasing: the trainee's wording does not need to match the criteria word for word, it needs to cover the substance.
- Feedback is addressed directly to the trainee, two or three sentences at most, warm in tone.
- When the answer falls short, say what is missing without revealing the expected answer.
- When the trainee has made several earnest attempts and is circling the right idea, you may set should_advance to true even if is_correct is false, so they are not stuck forever.
- Respond with JSON only.`

// buildUserPrompt assembles the evaluation request body. Prior attempts
// travel as conversation messages, not in this prompt, so the model sees
// them as real dialogue turns.
func buildUserPrompt(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question:\n%s\n\n", in.Question)
	fmt.Fprintf(&b, "Acceptance criteria:\n%s\n\n", in.Criteria)
	if in.Instructions != "" {
		fmt.Fprintf(&b, "Extra grading instructions:\n%s\n\n", in.Instructions)
	}
	fmt.Fprintf(&b, "Trainee's answer:\n%s", in.Answer)

	return b.String()
}
