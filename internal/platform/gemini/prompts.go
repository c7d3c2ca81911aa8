package gemini

import (
	"fmt"
	"strings"

	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
)

const singleEvalRubric = `You are evaluating parent-teen communication quality on a 0-10 scale.

RUBRIC:
- Tone (0-4): 4=Very calm/patient, 3=Mostly calm, 2=Neutral, 1=Slightly frustrated, 0=Angry/harsh
- Approach (0-3): 3=Solution-focused/collaborative, 2=Clear expectations with reasoning, 1=Direct instruction, 0=Dismissive/demanding
- Respect (0-3): 3=Acknowledges teen feelings, 2=Shows understanding, 1=Neutral, 0=Ignores/dismisses feelings

Return your evaluation as a JSON object with:
- tone_score: int (0-4)
- approach_score: int (0-3)
- respect_score: int (0-3)
- total_score: int (sum of above, 0-10)
- feedback: str (in the requested language)

Be strict but fair. Return pure JSON only, no other text.`

// singleEvalPrompt builds the fixed-rubric evaluation prompt.
func singleEvalPrompt(responseText string, evalCtx evaluation.Context) string {
	var b strings.Builder
	b.WriteString(singleEvalRubric)
	b.WriteString("\n\n")

	if evalCtx.Language == domain.LanguageCantonese {
		fmt.Fprintf(&b, "評估呢個父母對青少年嘅回應：'%s'\n\n", responseText)
		fmt.Fprintf(&b, "情境：青少年話「%s」\n", evalCtx.ChildPrompt)
		b.WriteString("語言：廣東話 - 所有反饋必須只用廣東話！")
	} else {
		fmt.Fprintf(&b, "Evaluate this parent's response to a teenager: '%s'\n\n", responseText)
		fmt.Fprintf(&b, "Situation: The teenager said: \"%s\"\n", evalCtx.ChildPrompt)
		b.WriteString("LANGUAGE: English - ALL feedback must be in English only!")
	}

	return b.String()
}

// multiEvalPrompt builds the dynamic-criteria evaluation prompt for one round.
func multiEvalPrompt(
	responseText string,
	evalCtx evaluation.Context,
	criteria evaluation.Criteria,
) string {
	var b strings.Builder
	b.WriteString("You are evaluating parent communication in a multi-round scenario with round-specific criteria.\n\n")
	b.WriteString("EVALUATION CRITERIA for this round:\n")
	for _, name := range criteria.Names {
		fmt.Fprintf(&b, "- %s (0-%d)\n", name, criteria.MaxScores.MaxFor(name))
	}
	b.WriteString(`
Return evaluation as JSON:
- criteria_scores: object mapping each criterion name to its integer score
- total_score: int (sum of all criteria scores)
- feedback: str (overall feedback in the requested language)
- detailed_feedback: object with feedback for each criterion in the requested language

Be specific in feedback. Return pure JSON only, no other text.

`)

	if evalCtx.Language == domain.LanguageCantonese {
		fmt.Fprintf(&b, "評估第%d輪父母對子女嘅回應：'%s'\n\n", evalCtx.RoundNumber, responseText)
		fmt.Fprintf(&b, "子女話：'%s'\n", evalCtx.ChildPrompt)
		fmt.Fprintf(&b, "合格分數：%d\n", criteria.PassThreshold)
		b.WriteString("語言：廣東話 - 所有反饋必須只用廣東話！")
	} else {
		fmt.Fprintf(&b, "Evaluate the Round %d parent's response to the child: '%s'\n\n",
			evalCtx.RoundNumber, responseText)
		fmt.Fprintf(&b, "Child said: '%s'\n", evalCtx.ChildPrompt)
		fmt.Fprintf(&b, "Passing score: %d\n", criteria.PassThreshold)
		b.WriteString("LANGUAGE: English - ALL feedback must be in English only!")
	}

	return b.String()
}

const responderPersona = `You are a child responding to your parent in the scenario described below.

RESPONSE GUIDELINES BY PARENT COMMUNICATION SCORE:
- Score 8-10: Cooperative, willing to listen and work together
- Score 6-7: Somewhat resistant but eventually willing to engage
- Score 4-5: Defensive, argumentative, pushing back
- Score 0-3: Very defensive, upset, feeling misunderstood

Stay in character for the scenario context, and respond naturally to what the
parent actually said.

Return JSON with:
- response: str (your reply in the requested language)
- emotion: str (cooperative/reluctant/defensive/upset)

Return pure JSON only, no other text.`

// responderPrompt builds the child-reply prompt for the given score.
func responderPrompt(score int, evalCtx evaluation.Context) string {
	var b strings.Builder
	b.WriteString(responderPersona)
	b.WriteString("\n\n")

	context := evalCtx.ScenarioBackground
	if evalCtx.ChildState != "" {
		context = fmt.Sprintf("%s Child state: %s", context, evalCtx.ChildState)
	}

	if evalCtx.Language == domain.LanguageCantonese {
		fmt.Fprintf(&b, "父母嘅溝通得分係 %d/10。請根據呢個分數回應父母嘅話。分數越高表示父母溝通越好，你嘅回應應該越配合。", score)
		if context != "" {
			fmt.Fprintf(&b, " 背景：%s", context)
		}
		b.WriteString("\n\n語言：廣東話")
	} else {
		fmt.Fprintf(&b, "The parent's communication score is %d/10. Respond to the parent based on this score; a higher score means better communication, so be more cooperative.", score)
		if context != "" {
			fmt.Fprintf(&b, " Context: %s", context)
		}
		b.WriteString("\n\nLanguage: English")
	}

	return b.String()
}
