package usecase

import "fmt"

// analysisPromptTemplate は履歴書とJDを比較させるプロンプトのテンプレートです。
// 1つ目の%sに履歴書本文、2つ目の%sにJD本文がそのまま埋め込まれます。
const analysisPromptTemplate = `You are an expert Resume Optimizer and Career Coach.
Your task is to analyze a Candidate's Resume against a Job Description (JD).

Resume Content:
%s

Job Description:
%s

Please provide a structured analysis in valid JSON format with the following keys:
1. "match_percentage": (string) Estimated match percentage (e.g., "75%%").
2. "gap_analysis": (list of strings) Describe specific gaps (skills, experience, or tone) in the resume compared to the JD.
3. "missing_keywords": (list of strings) Important keywords or hard skills from the JD that are not present in the resume.
4. "rewritten_summary": (string) A rewritten professional summary for the resume that incorporates the missing keywords and aligns with the JD's tone.

Ensure the output is ONLY valid JSON. Do not include any other text.
`

// BuildPrompt は履歴書とJDから分析用プロンプトを生成します。同じ入力には常に同じ文字列を返します。
func BuildPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(analysisPromptTemplate, resumeText, jobDescription)
}
