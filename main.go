package main

import (
	"context"
	"os"

	"github.com/Emre-C/notion-to-md/util"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

const (
	version     = "1.0.0"
	usage       = "A tool for exporting Notion pages to Markdown files."
	description = `notion-to-md fetches a Notion page over the official API and renders ` +
		`its block tree to Markdown, one file per page. An integration token with ` +
		`read access to the exported pages is required; create one at ` +
		`https://www.notion.so/my-integrations and share the pages with it.`
)

func main() {
	cmd := &cli.Command{
		Name:                  "notion-to-md",
		Usage:                 usage,
		Description:           description,
		Version:               version,
		Flags:                 util.Flags,
		EnableShellCompletion: true,
		Action:                util.RunExport,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
