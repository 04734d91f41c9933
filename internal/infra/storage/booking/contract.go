package booking

import (
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
)

// DBExecutor *dbmetrics.DB, *sql.DB или транзакция из контекста
type DBExecutor = dbmetrics.DBExecutor
