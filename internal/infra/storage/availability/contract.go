package availability

import "github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
