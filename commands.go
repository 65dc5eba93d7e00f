package melt

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// OnExit registers fn to run once when Run returns. Hooks run in reverse order.
func (cmd *Commands) OnExit(fn func()) *Commands {
	cmd.app.onExit = append(cmd.app.onExit, fn)
	return cmd
}

// Exit stops the app after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.exitRequested = true
}

func (cmd *Commands) State() State { return cmd.app.state }

func (cmd *Commands) Logger() Logger { return cmd.app.Logger() }
