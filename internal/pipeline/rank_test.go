package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"topic-pulse/internal/model"
)

func ids(cs []model.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	Convey("Given a mixed candidate set", t, func() {
		cands := []model.Candidate{
			{ID: "a", Score: 5},
			{ID: "pinned", Score: 1000, IsPinned: true},
			{ID: "b", Score: 9},
			{ID: "nsfw", Score: 500, IsSensitive: true},
			{ID: "c", Score: 5},
			{ID: "d", Score: -2},
			{ID: "b", Score: 9},
			{ID: "e"},
		}

		Convey("When selecting without a bound", func() {
			got := Select(cands, 0)

			Convey("Then excluded and duplicate candidates are gone", func() {
				So(ids(got), ShouldResemble, []string{"b", "a", "c", "e", "d"})
			})
		})

		Convey("When selecting with a bound", func() {
			got := Select(cands, 2)

			Convey("Then only the top entries are kept", func() {
				So(ids(got), ShouldResemble, []string{"b", "a"})
			})
		})

		Convey("When the input is not modified by selection", func() {
			before := append([]model.Candidate(nil), cands...)
			_ = Select(cands, 3)
			So(cands, ShouldResemble, before)
		})
	})
}

func TestSelectNeverReturnsExcluded(t *testing.T) {
	Convey("Given random candidate sets", t, func() {
		r := rand.New(rand.NewSource(7))
		for round := 0; round < 50; round++ {
			cands := make([]model.Candidate, 40)
			for i := range cands {
				cands[i] = model.Candidate{
					ID:          fmt.Sprintf("%d-%d", round, i),
					Score:       r.Intn(200) - 100,
					IsPinned:    r.Intn(5) == 0,
					IsSensitive: r.Intn(5) == 0,
				}
			}
			got := Select(cands, 15)
			for _, c := range got {
				So(c.Excluded(), ShouldBeFalse)
			}
			So(len(got), ShouldBeLessThanOrEqualTo, 15)
			for i := 1; i < len(got); i++ {
				So(got[i-1].Score, ShouldBeGreaterThanOrEqualTo, got[i].Score)
			}
		}
	})
}

func TestSelectIsDeterministic(t *testing.T) {
	Convey("Given candidates with tied scores", t, func() {
		cands := []model.Candidate{
			{ID: "x", Score: 1}, {ID: "y", Score: 1}, {ID: "z", Score: 3}, {ID: "w", Score: 1},
		}

		Convey("Re-running selection yields the same order with ties in insertion order", func() {
			first := ids(Select(cands, 0))
			for i := 0; i < 10; i++ {
				So(ids(Select(cands, 0)), ShouldResemble, first)
			}
			So(first, ShouldResemble, []string{"z", "x", "y", "w"})
		})
	})
}

func TestSortItemsAndTopReplies(t *testing.T) {
	Convey("Given enriched items with updated scores", t, func() {
		items := []model.EnrichedItem{
			{Candidate: model.Candidate{ID: "a", Score: 1}},
			{Candidate: model.Candidate{ID: "b", Score: 4}},
			{Candidate: model.Candidate{ID: "c", Score: 1}},
		}
		SortItems(items)
		So([]string{items[0].ID, items[1].ID, items[2].ID}, ShouldResemble, []string{"b", "a", "c"})
	})

	Convey("Given replies", t, func() {
		rs := []model.Reply{{BodyText: "1", Score: 1}, {BodyText: "2", Score: 8}, {BodyText: "3", Score: 1}, {BodyText: "4", Score: 3}}

		Convey("They are ordered by score, stable, and capped", func() {
			got := topReplies(rs, 3)
			So(got, ShouldResemble, []model.Reply{{BodyText: "2", Score: 8}, {BodyText: "4", Score: 3}, {BodyText: "1", Score: 1}})
			So(rs[0].BodyText, ShouldEqual, "1")
		})
	})
}
