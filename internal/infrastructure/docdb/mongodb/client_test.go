package mongodb_test

import (
	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/infrastructure/docdb/mongodb"
)

// Client must satisfy docdb.Client in full, EnsureIndexes included.
var _ docdb.Client = (*mongodb.Client)(nil)
