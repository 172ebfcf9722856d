package repositories

import "database/sql"

// nullIfZero stores an unowned record as NULL rather than a dangling 0 id.
func nullIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func int64OrZero(n sql.NullInt64) int64 {
	if n.Valid {
		return n.Int64
	}
	return 0
}
