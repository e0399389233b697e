package model_test

import (
	"testing"

	"github.com/auxcord/auxcord/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReactionKind(t *testing.T) {
	Convey("Given the reaction kinds", t, func() {
		Convey("Then listen and like should be valid", func() {
			So(model.KindListen.Valid(), ShouldBeTrue)
			So(model.KindLike.Valid(), ShouldBeTrue)
		})

		Convey("Then anything else should be invalid", func() {
			So(model.ReactionKind("").Valid(), ShouldBeFalse)
			So(model.ReactionKind("skip").Valid(), ShouldBeFalse)
		})
	})
}
