package repository

import (
	"reflect"
	"testing"
	"time"

	"github.com/ncobase/nblog/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestListFilterEmpty verifies a zero query matches everything.
func TestListFilterEmpty(t *testing.T) {
	filter := listFilter(structs.PostQuery{}, time.Now())
	if len(filter) != 0 {
		t.Errorf("filter = %v, want empty", filter)
	}
}

// TestListFilterFields verifies each parameter lands on its stored field.
func TestListFilterFields(t *testing.T) {
	author := primitive.NewObjectID()
	filter := listFilter(structs.PostQuery{
		Category: "travel",
		AuthorID: author,
		Search:   "mountain",
		Featured: true,
	}, time.Now())

	if got := filter["category"]; got != "travel" {
		t.Errorf("category = %v, want travel", got)
	}
	if got := filter["user"]; got != author {
		t.Errorf("user = %v, want %v", got, author)
	}
	if got := filter["is_featured"]; got != true {
		t.Errorf("is_featured = %v, want true", got)
	}

	search, ok := filter["title"].(bson.M)
	if !ok {
		t.Fatalf("title filter = %v, want bson.M", filter["title"])
	}
	if search["$regex"] != "mountain" || search["$options"] != "i" {
		t.Errorf("title filter = %v, want case-insensitive regex", search)
	}
}

// TestListFilterTrendingWindow verifies the trending sort restricts the
// filter to the trailing week.
func TestListFilterTrendingWindow(t *testing.T) {
	now := time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)
	filter := listFilter(structs.PostQuery{Sort: structs.SortTrending}, now)

	window, ok := filter["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at filter = %v, want bson.M", filter["created_at"])
	}
	gte, ok := window["$gte"].(time.Time)
	if !ok {
		t.Fatalf("$gte = %v, want time.Time", window["$gte"])
	}
	if want := now.Add(-structs.TrendingWindow); !gte.Equal(want) {
		t.Errorf("$gte = %v, want %v", gte, want)
	}
}

// TestListFilterNonTrendingUnbounded verifies other sorts leave created_at
// unconstrained.
func TestListFilterNonTrendingUnbounded(t *testing.T) {
	for _, sort := range []string{structs.SortNewest, structs.SortOldest, structs.SortPopular, ""} {
		filter := listFilter(structs.PostQuery{Sort: sort}, time.Now())
		if _, ok := filter["created_at"]; ok {
			t.Errorf("sort %q constrained created_at", sort)
		}
	}
}

// TestListSort verifies the sort document per mode, with unknown modes
// falling back to newest.
func TestListSort(t *testing.T) {
	cases := []struct {
		sort string
		want bson.D
	}{
		{structs.SortNewest, bson.D{{Key: "created_at", Value: -1}}},
		{structs.SortOldest, bson.D{{Key: "created_at", Value: 1}}},
		{structs.SortPopular, bson.D{{Key: "visit", Value: -1}}},
		{structs.SortTrending, bson.D{{Key: "visit", Value: -1}}},
		{"", bson.D{{Key: "created_at", Value: -1}}},
		{"bogus", bson.D{{Key: "created_at", Value: -1}}},
	}
	for _, c := range cases {
		if got := listSort(structs.PostQuery{Sort: c.sort}); !reflect.DeepEqual(got, c.want) {
			t.Errorf("listSort(%q) = %v, want %v", c.sort, got, c.want)
		}
	}
}
