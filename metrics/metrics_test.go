package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		var r Recorder

		Convey("Outcomes are counted per mode", func() {
			before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("forced", "retry"))
			r.Observe("forced", "retry")
			r.Observe("forced", "retry")
			So(testutil.ToFloat64(EvaluationsTotal.WithLabelValues("forced", "retry")), ShouldEqual, before+2)
		})

		Convey("Signals and player changes are counted", func() {
			before := testutil.ToFloat64(SignalsTotal.WithLabelValues("navigation"))
			r.Signal("navigation")
			So(testutil.ToFloat64(SignalsTotal.WithLabelValues("navigation")), ShouldEqual, before+1)

			changes := testutil.ToFloat64(PlayerChangesTotal)
			r.PlayerChanged()
			So(testutil.ToFloat64(PlayerChangesTotal), ShouldEqual, changes+1)
		})
	})

	Convey("Register adds every collector", t, func() {
		reg := prometheus.NewRegistry()
		So(func() { Register(reg) }, ShouldNotPanic)
		So(func() { Register(reg) }, ShouldPanic)
	})
}
