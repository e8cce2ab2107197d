package knowledge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one knowledge-base document belonging to a guild. The embedding
// is produced by the external embedder and is nil only transiently, before
// the first embedding completes.
type Entry struct {
	id        uuid.UUID
	guildID   uint64
	title     string
	content   string
	embedding []float64
	createdAt time.Time
	updatedAt time.Time
}

func NewEntry(guildID uint64, title, content string) (*Entry, error) {
	if guildID == 0 {
		return nil, fmt.Errorf("guild ID is required")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 500 {
		return nil, fmt.Errorf("title exceeds maximum length of 500 characters")
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("content is required")
	}

	now := time.Now().UTC()
	return &Entry{
		id:        uuid.New(),
		guildID:   guildID,
		title:     title,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructEntry(
	id uuid.UUID,
	guildID uint64,
	title, content string,
	embedding []float64,
	createdAt, updatedAt time.Time,
) (*Entry, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("entry ID cannot be nil")
	}

	return &Entry{
		id:        id,
		guildID:   guildID,
		title:     title,
		content:   content,
		embedding: embedding,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (e *Entry) ID() uuid.UUID        { return e.id }
func (e *Entry) GuildID() uint64      { return e.guildID }
func (e *Entry) Title() string        { return e.title }
func (e *Entry) Content() string      { return e.content }
func (e *Entry) Embedding() []float64 { return e.embedding }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time { return e.updatedAt }

// HasEmbedding reports whether the entry can take part in similarity search.
func (e *Entry) HasEmbedding() bool {
	return len(e.embedding) > 0
}

// EmbeddingText is the text handed to the embedder for this entry.
func (e *Entry) EmbeddingText() string {
	return e.title + "\n" + e.content
}

func (e *Entry) SetEmbedding(vector []float64) {
	e.embedding = vector
	e.updatedAt = time.Now().UTC()
}

func (e *Entry) UpdateTitle(title string) error {
	if len(title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(title) > 500 {
		return fmt.Errorf("title exceeds maximum length of 500 characters")
	}
	e.title = title
	e.updatedAt = time.Now().UTC()
	return nil
}

func (e *Entry) UpdateContent(content string) error {
	if len(content) == 0 {
		return fmt.Errorf("content is required")
	}
	e.content = content
	e.updatedAt = time.Now().UTC()
	return nil
}
