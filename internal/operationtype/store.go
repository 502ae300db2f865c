package operationtype

import "context"

// Store is the catalog repository contract, keyed by the natural type code.
//
// Upsert is the lookup-then-insert/update described by the save contract:
// absent codes insert, present codes have description and cost replaced in
// place, never duplicated. Insert is the strict variant and reports
// sentinel.ErrAlreadyExists for taken codes. List returns every entry
// ordered lexicographically by code.
type Store interface {
	Upsert(ctx context.Context, ot *OperationType) (*OperationType, error)
	Insert(ctx context.Context, ot *OperationType) (*OperationType, error)
	List(ctx context.Context) ([]*OperationType, error)
}
