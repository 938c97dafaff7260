package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSearchFilterBuildsOrOverFields(t *testing.T) {
	filter := SearchFilter("arctica", []string{"title", "author"})

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	title := or[0]["title"].(bson.M)
	assert.Equal(t, "arctica", title["$regex"])
	assert.Equal(t, "i", title["$options"])

	author := or[1]["author"].(bson.M)
	assert.Equal(t, "arctica", author["$regex"])
}

func TestSearchFilterQuotesRegexMetacharacters(t *testing.T) {
	filter := SearchFilter("tome 1/12 (vf).*", []string{"title"})

	or := filter["$or"].([]bson.M)
	pattern := or[0]["title"].(bson.M)["$regex"].(string)

	assert.Equal(t, `tome 1/12 \(vf\)\.\*`, pattern)
}

func TestDatabaseErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &DatabaseError{Op: "insert books", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert books")
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(errors.New("something else")))
}
