package pipeline

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"topic-pulse/internal/model"
)

func TestMerge(t *testing.T) {
	Convey("Given enriched items", t, func() {
		items := []model.EnrichedItem{
			{
				Candidate: model.Candidate{Title: "Cybertruck deliveries", BodyText: "Thoughts?", SourceID: "tesla", Score: 120},
				Replies: []model.Reply{
					{BodyText: "Love it", Score: 40},
					{BodyText: "Too pricey", Score: 22},
					{BodyText: "Meh", Score: 5},
					{BodyText: "hidden", Score: 1},
				},
			},
			{
				Candidate: model.Candidate{Title: "Supercharger map", SourceID: "teslaindia", Score: -3},
				Replies:   []model.Reply{},
			},
		}

		Convey("When merged", func() {
			doc := Merge(items)

			Convey("Then the layout is fixed and 1-indexed", func() {
				want := "1. Cybertruck deliveries\n" +
					"Thoughts?\n" +
					"Source: r/tesla | Score: 120\n" +
					"Top replies:\n" +
					"  - Love it (40)\n" +
					"  - Too pricey (22)\n" +
					"  - Meh (5)\n" +
					"\n" +
					"2. Supercharger map\n" +
					"Source: r/teslaindia | Score: -3\n"
				So(doc, ShouldEqual, want)
			})

			Convey("Then merging again is byte-identical", func() {
				So(Merge(items), ShouldEqual, doc)
			})
		})

		Convey("When there are no items", func() {
			So(Merge(nil), ShouldEqual, "")
		})
	})
}
