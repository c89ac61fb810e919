package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Create(); err != nil {
		return err
	}
	if err := ctx.Store.Save(); err != nil {
		return err
	}
	ctx.printf("Initialized glowup storage at: %s\n", ctx.KV.Path())
	return nil
}
