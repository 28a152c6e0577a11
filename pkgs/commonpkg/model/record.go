package model

import (
	"database/sql"
	"time"
)

// Embedding is the record kept for every text stored in the vector store.
type Embedding struct {
	Id        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Conversation struct {
	Id          int64           `db:"id" json:"id"`
	EmbeddingId sql.NullInt64   `db:"embedding_id" json:"-"`
	Question    string          `db:"question" json:"question"`
	Answer      string          `db:"answer" json:"answer"`
	CoinSymbol  sql.NullString  `db:"coin_symbol" json:"-"`
	CoinPrice   sql.NullFloat64 `db:"coin_price" json:"-"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	RelatedAnswers []RelatedAnswer `db:"-" json:"related_answers"`
}

type RelatedAnswer struct {
	Id             int64     `db:"id" json:"id"`
	ConversationId int64     `db:"conversation_id" json:"conversation_id"`
	Answer         string    `db:"answer" json:"answer"`
	Distance       float64   `db:"distance" json:"distance"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
