package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ivkovb/printstudio/internal/domain"
)

func TestCASFilter_Versioned(t *testing.T) {
	doc := inventoryDocument{ID: primitive.NewObjectID(), Version: int64Ptr(7)}

	filter := casFilter(doc)
	assert.Equal(t, doc.ID, filter["_id"])
	assert.Equal(t, int64(7), filter["version"])
}

func TestCASFilter_UnversionedMatchesMissingField(t *testing.T) {
	doc := inventoryDocument{ID: primitive.NewObjectID()}

	filter := casFilter(doc)
	assert.Equal(t, doc.ID, filter["_id"])

	// A nil equality is what matches a document without the field; a 0
	// here would match nothing and the retry loop could never commit.
	version, ok := filter["version"]
	require.True(t, ok)
	assert.Nil(t, version)
}

func TestCASUpdate_VersionedIncrements(t *testing.T) {
	product := &domain.Product{Stock: 3}

	update := casUpdate(product, int64Ptr(7), time.Now().UTC())

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, set, "version")
	assert.Equal(t, bson.M{"version": 1}, update["$inc"])
}

func TestCASUpdate_UnversionedStampsVersion(t *testing.T) {
	product := &domain.Product{Stock: 3}

	update := casUpdate(product, nil, time.Now().UTC())

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(1), set["version"])
	assert.NotContains(t, update, "$inc")
}
