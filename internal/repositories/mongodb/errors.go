package mongodb

import (
	"errors"
	"regexp"

	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// notFound maps the driver's missing-document error onto the repository sentinel
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}

// idPrefixFilter matches string ids starting with prefix
func idPrefixFilter(prefix string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}
}
