package melt

import (
	"github.com/gekko3d/melt/telemetry"
)

// TelemetryModule writes every simulated frame and a rolling summary as CSV under Dir. An empty
// Dir installs nothing.
type TelemetryModule struct {
	Dir    string
	Window int
}

type telemetryState struct {
	collector *telemetry.Collector
	output    *telemetry.Output
	frame     int
	failed    bool
}

func (mod TelemetryModule) Install(app *App, cmd *Commands) {
	if mod.Dir == "" {
		return
	}
	out, err := telemetry.NewOutput(mod.Dir)
	if err != nil {
		app.Logger().Errorf("telemetry disabled: %v", err)
		return
	}
	app.Logger().Infof("writing telemetry to %s", mod.Dir)
	installTelemetry(cmd, out, mod.Window)
}

func installTelemetry(cmd *Commands, out *telemetry.Output, window int) {
	st := &telemetryState{
		collector: telemetry.NewCollector(window),
		output:    out,
	}
	cmd.AddResources(st)
	cmd.OnExit(func() {
		if ws, ok := st.collector.Flush(); ok {
			st.write(cmd.Logger(), st.output.WriteWindow(ws))
		}
		if err := st.output.Close(); err != nil {
			cmd.Logger().Errorf("closing telemetry: %v", err)
		}
	})
	cmd.UseSystem(System(telemetrySystem).InStage(PostUpdate).RunAlways())
}

func (st *telemetryState) write(log Logger, err error) {
	if err != nil && !st.failed {
		st.failed = true
		log.Errorf("telemetry write failed, further errors suppressed: %v", err)
	}
}

func telemetrySystem(bf *BurstFrame, st *telemetryState, cmd *Commands) {
	if !bf.Stepped {
		return
	}
	rec := telemetry.NewFrameRecord(st.frame, bf.Burst, bf.Dt, bf.Frame)
	st.frame++

	log := cmd.Logger()
	st.write(log, st.output.WriteFrame(rec))
	for _, ws := range st.collector.Record(rec) {
		st.write(log, st.output.WriteWindow(ws))
		log.Debugf("burst %d frames %d-%d: mean dt %.4f, mean live %.1f, destroyed %d",
			ws.Burst, ws.FirstFrame, ws.LastFrame, ws.MeanDt, ws.MeanLive, ws.Destroyed)
	}
}
