package models

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type PlatformStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalQuestions  int64 `json:"total_questions"`
	TotalAnswers    int64 `json:"total_answers"`
	TotalVotes      int64 `json:"total_votes"`
	TotalTags       int64 `json:"total_tags"`
	SolvedQuestions int64 `json:"solved_questions"`
}

// SearchResult wraps a question with its relevance score
type SearchResult struct {
	Question
	Relevance int `json:"relevance"`
}
