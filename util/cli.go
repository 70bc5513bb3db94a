package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Emre-C/notion-to-md/converter"
	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/renderer"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func RunExport(ctx context.Context, cmd *cli.Command) error {
	if err := SetLogLevel(cmd); err != nil {
		return err
	}

	if cmd.String("color") == "never" {
		log.GetLogger().SetFormat(
			lorg.NewFormat(
				`${time:2006-01-02 15:04:05.000} ${level:%s:left:true} ${prefix}%s`,
			),
		)
		log.GetLogger().SetOutput(os.Stderr)
	}

	creds, err := GetCredentials(cmd.String("token"), cmd.String("base-url"))
	if err != nil {
		return err
	}

	pages := cmd.StringSlice("pages")
	if len(pages) == 0 {
		return fmt.Errorf("no pages specified, use --pages <id>")
	}

	log.Debug("config:")
	for _, f := range cmd.Flags {
		flag := f.Names()
		if flag[0] == "token" {
			log.Debugf(nil, "%24s: %v", flag[0], "******")
		} else {
			log.Debugf(nil, "%24s: %v", flag[0], cmd.Value(flag[0]))
		}
	}

	api := notion.NewAPI(creds.BaseURL, creds.Token)

	config := types.Config{
		SeparateChildPage:     cmd.Bool("separate-child-pages"),
		ConvertImagesToBase64: cmd.Bool("images-to-base64"),
		ParseChildPages:       cmd.Bool("parse-child-pages"),
		APIRetryAttempts:      int(cmd.Int("retry-attempts")),
		APIRateLimitDelay:     cmd.Duration("rate-limit-delay"),
		MaxConcurrentRequests: int(cmd.Int("max-concurrent-requests")),
		FrontMatter:           cmd.Bool("front-matter"),
	}

	convert := converter.New(api, config)

	fatalErrorHandler := NewErrorHandler(cmd.Bool("continue-on-error"))

	for _, pageID := range pages {
		log.Infof(nil, "exporting page %s", pageID)

		exportPage(ctx, api, convert, cmd, pageID, fatalErrorHandler)
	}

	return nil
}

func exportPage(
	ctx context.Context,
	api *notion.API,
	convert *converter.Converter,
	cmd *cli.Command,
	pageID string,
	fatalErrorHandler *FatalErrorHandler,
) {
	units, err := convert.PageToMarkdown(ctx, pageID)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to convert page %q", pageID)
		return
	}

	if cmd.Bool("front-matter") {
		header, err := frontMatter(ctx, api, pageID)
		if err != nil {
			fatalErrorHandler.Handle(err, "unable to build front matter for page %q", pageID)
			return
		}

		for id, unit := range units {
			units[id] = header + unit
		}
	}

	if cmd.Bool("dry-run") {
		for _, id := range unitOrder(units) {
			fmt.Println(units[id])
		}

		return
	}

	output := cmd.String("output")
	if err := os.MkdirAll(output, 0o755); err != nil {
		fatalErrorHandler.Handle(err, "unable to create output directory %q", output)
		return
	}

	for id, unit := range units {
		name := id
		if id == renderer.ParentUnit {
			name = pageID
		}

		path := filepath.Join(output, name+".md")

		err := os.WriteFile(path, []byte(unit), 0o644)
		if err != nil {
			fatalErrorHandler.Handle(
				karma.Describe("page", pageID).Reason(err),
				"unable to write %q",
				path,
			)
			return
		}

		log.Infof(nil, "written %s", path)
	}
}

// frontMatter renders the YAML header for an exported page. A missing
// title is not fatal, the page id alone still identifies the export.
func frontMatter(ctx context.Context, api *notion.API, pageID string) (string, error) {
	header := struct {
		Title    string `yaml:"title,omitempty"`
		NotionID string `yaml:"notion_id"`
		Exported string `yaml:"exported"`
	}{
		NotionID: pageID,
		Exported: time.Now().UTC().Format(time.RFC3339),
	}

	title, err := api.GetPageTitle(ctx, pageID)
	if err != nil {
		log.Warningf(
			karma.Describe("page", pageID).Reason(err),
			"unable to retrieve page title, front matter will carry the id only",
		)
	} else {
		header.Title = title
	}

	encoded, err := yaml.Marshal(header)
	if err != nil {
		return "", karma.Format(err, "unable to encode front matter")
	}

	return "---\n" + string(encoded) + "---\n\n", nil
}

// unitOrder returns unit ids with the parent document first so dry-run
// output reads top-down.
func unitOrder(units map[string]string) []string {
	order := make([]string, 0, len(units))

	if _, ok := units[renderer.ParentUnit]; ok {
		order = append(order, renderer.ParentUnit)
	}

	for id := range units {
		if id != renderer.ParentUnit {
			order = append(order, id)
		}
	}

	return order
}

func ConfigFilePath() string {
	fp, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(fp, "notion-to-md.toml")
}

func SetLogLevel(cmd *cli.Command) error {
	logLevel := cmd.String("log-level")
	switch strings.ToUpper(logLevel) {
	case lorg.LevelTrace.String():
		log.SetLevel(lorg.LevelTrace)
	case lorg.LevelDebug.String():
		log.SetLevel(lorg.LevelDebug)
	case lorg.LevelInfo.String():
		log.SetLevel(lorg.LevelInfo)
	case lorg.LevelWarning.String():
		log.SetLevel(lorg.LevelWarning)
	case lorg.LevelError.String():
		log.SetLevel(lorg.LevelError)
	case lorg.LevelFatal.String():
		log.SetLevel(lorg.LevelFatal)
	default:
		return fmt.Errorf("unknown log level: %s", logLevel)
	}

	return nil
}
