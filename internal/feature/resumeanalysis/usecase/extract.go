package usecase

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
)

const (
	// DefaultMatchPercentage はモデル出力にマッチ率が含まれない場合の値です。
	DefaultMatchPercentage = "N/A"
	// DefaultSummary はモデル出力に要約が含まれない場合の値です。
	DefaultSummary = "No summary generated."
)

var (
	// fencedJSONPattern は ```json ... ``` で囲まれたコードブロックを抽出します。
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	// braceJSONPattern は最初の { から最後の } までを抽出します。
	braceJSONPattern = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ExtractJSON はモデルの生テキストからJSONオブジェクトを取り出します。
// テキスト全体、```json コードブロック、波括弧で囲まれた部分の順に解析を試み、
// どれも失敗した場合はnilを返します。
func ExtractJSON(text string) map[string]any {
	if obj, ok := parseObject(text); ok {
		return obj
	}
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		if obj, ok := parseObject(m[1]); ok {
			return obj
		}
	}
	if m := braceJSONPattern.FindStringSubmatch(text); m != nil {
		if obj, ok := parseObject(m[1]); ok {
			return obj
		}
	}
	return nil
}

// parseObject は空でないJSONオブジェクトとして解析できた場合のみ成功とします。
func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// DecodeResult は抽出済みのJSONオブジェクトを型付きのAnalysisResultに変換します。
// 型が想定と異なるフィールドは可能な範囲で変換し、欠損時は既定値を使います。
func DecodeResult(obj map[string]any) entity.AnalysisResult {
	raw, err := json.Marshal(obj)
	if err != nil {
		raw = []byte("{}")
	}
	doc := gjson.ParseBytes(raw)

	return entity.AnalysisResult{
		MatchPercentage:  percentage(doc.Get("match_percentage")),
		GapAnalysis:      stringList(doc.Get("gap_analysis")),
		MissingKeywords:  stringList(doc.Get("missing_keywords")),
		RewrittenSummary: summary(doc.Get("rewritten_summary")),
	}
}

func percentage(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64) + "%"
	default:
		return DefaultMatchPercentage
	}
}

func stringList(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if item.Type == gjson.Null {
				continue
			}
			out = append(out, item.String())
		}
	case v.Type == gjson.String:
		out = append(out, v.String())
	}
	return out
}

func summary(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return DefaultSummary
}
