// Package notification defines the core notification domain model and its
// persistence contract.
//
// A Notification is a value snapshot: lifecycle markers (read, delivered,
// failed) are applied through the Mark* methods which return a new copy, so a
// stored record is only ever replaced, never mutated through shared state.
//
// The Storage interface is the repository boundary of the delivery engine.
// Two implementations ship with the package:
//
//   - MemoryStorage for development and tests
//   - PostgresStorage on top of a pgx connection pool, with the schema
//     managed by the migrations in the migrations/ directory
//
// # Basic Usage
//
//	store := notification.NewMemoryStorage()
//
//	n := notification.Notification{
//	    ID:          uuid.NewString(),
//	    RecipientID: "user123",
//	    Type:        notification.TypeInfo,
//	    Priority:    notification.PriorityNormal,
//	    Title:       "Welcome!",
//	    Message:     "Thanks for joining",
//	    Channels:    []notification.Channel{notification.ChannelInApp},
//	    CreatedAt:   time.Now(),
//	}
//	if err := store.Create(ctx, n); err != nil {
//	    // handle error
//	}
//
// Delivery decisions on top of this model live in the decision package;
// orchestration of side-effecting delivery lives in the dispatch package.
package notification
