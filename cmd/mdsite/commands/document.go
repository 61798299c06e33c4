package commands

import (
	"errors"
	"fmt"
	"os"

	"git.home.luguber.info/inful/mdsite/internal/config"
	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
	"git.home.luguber.info/inful/mdsite/internal/render"
)

// RenderCmd prints the rendered content fragment of one document. The engine
// comes from build.engine unless --engine is given.
type RenderCmd struct {
	File   string `arg:"" help:"Markdown file" type:"existingfile"`
	Engine string `help:"Markdown engine (builtin|goldmark), overrides build.engine"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	engine := cfg.Build.Engine
	if r.Engine != "" {
		engine = r.Engine
	}

	res, err := convertFile(r.File, engine)
	// The fragment is still useful when only the title is missing.
	if err != nil && !errors.Is(err, markdown.ErrNoTitleFound) {
		return err
	}
	fmt.Fprintln(g.stdout(), res.HTML)
	return nil
}

// TitleCmd prints the title of one document.
type TitleCmd struct {
	File string `arg:"" help:"Markdown file" type:"existingfile"`
}

func (t *TitleCmd) Run(g *Global, _ *CLI) error {
	source, err := os.ReadFile(t.File)
	if err != nil {
		return serrors.FileSystemError("read", t.File, err)
	}
	title, err := markdown.ExtractTitle(string(source))
	if err != nil {
		return serrors.MarkdownError(t.File, err)
	}
	fmt.Fprintln(g.stdout(), title)
	return nil
}

func convertFile(path, engineName string) (render.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return render.Result{}, serrors.FileSystemError("read", path, err)
	}
	if engineName == "" {
		engineName = config.EngineBuiltin
	}
	engine, err := render.New(engineName)
	if err != nil {
		return render.Result{}, err
	}
	res, err := engine.Convert(source)
	if err != nil {
		return res, serrors.MarkdownError(path, err)
	}
	return res, nil
}
