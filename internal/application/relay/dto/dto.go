package dto

// KnowledgeChunk is one knowledge base entry selected for the prompt.
type KnowledgeChunk struct {
	Title   string
	Content string
}

// HistoryMessage is one prior message of the ticket conversation.
type HistoryMessage struct {
	Role    string
	Content string
}

// PromptContext carries everything the reply generator needs to compose
// an answer: the guild's system prompt, the most relevant knowledge
// entries and the recent conversation in chronological order.
type PromptContext struct {
	SystemPrompt    string
	KnowledgeChunks []KnowledgeChunk
	MessageHistory  []HistoryMessage
}
