package mongodb

import (
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// wrapDuplicate translates a MongoDB duplicate-key write error into the
// repository-level sentinel so callers can errors.Is against it without
// importing the driver.
func wrapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}
