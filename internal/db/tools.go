//go:build tools

package db

//go:generate go run github.com/sqlc-dev/sqlc/cmd/sqlc generate -f ../../sqlc.yaml

import (
	_ "github.com/sqlc-dev/sqlc/cmd/sqlc"
)
