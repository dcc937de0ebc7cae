package types

// TokenCharRatio is the fixed characters-per-token heuristic used everywhere
// a language-model input size is estimated. Four characters per token tracks
// common BPE tokenizers closely enough for budgeting.
const TokenCharRatio = 4

// EstimateTokens approximates the language-model token count of a text.
func EstimateTokens(content string) int {
	return len(content) / TokenCharRatio
}

// EstimateTokensBytes approximates the token count of raw file content.
func EstimateTokensBytes(content []byte) int {
	return len(content) / TokenCharRatio
}
