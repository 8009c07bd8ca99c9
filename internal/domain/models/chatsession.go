package models

import "time"

// ChatSessionStatus is the lifecycle state of a human-operator escalation.
type ChatSessionStatus string

const (
	ChatSessionActive      ChatSessionStatus = "active"
	ChatSessionTransferred ChatSessionStatus = "transferred"
	ChatSessionClosed      ChatSessionStatus = "closed"
)

// ChatMessage is one message in an escalated conversation transcript.
type ChatMessage struct {
	Sender    string    `json:"sender" bson:"sender"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ChatSession is the record of a conversation handed over to a human
// operator. It snapshots the bot-phase history so the operator has context.
type ChatSession struct {
	ID         string            `json:"id" bson:"_id,omitempty"`
	UserID     string            `json:"userId" bson:"userId"`
	Platform   Platform          `json:"platform" bson:"platform"`
	Status     ChatSessionStatus `json:"status" bson:"status"`
	Messages   []ChatMessage     `json:"messages" bson:"messages"`
	AssignedTo string            `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	OpenedAt   time.Time         `json:"openedAt" bson:"openedAt"`
	ClosedAt   *time.Time        `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}
