package util

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	altsrctoml "github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var filename string

var Flags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "pages",
		Aliases: []string{"P"},
		Usage:   "ids of the Notion pages to export. Can be given multiple times.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_PAGES"), altsrctoml.TOML("pages", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Value:   "",
		Usage:   "Notion integration token. Specify - as token to read it from stdin.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_TOKEN"), altsrctoml.TOML("token", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "base-url",
		Aliases: []string{"b"},
		Value:   "",
		Usage:   "base URL for the Notion API. Defaults to the public endpoint.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_BASE_URL"), altsrctoml.TOML("base-url", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "output",
		Aliases:   []string{"o"},
		Value:     ".",
		Usage:     "directory the exported markdown files are written to.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_OUTPUT"), altsrctoml.TOML("output", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		Usage:   "print the rendered markdown to stdout and don't write any files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_DRY_RUN"), altsrctoml.TOML("dry-run", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "continue-on-error",
		Value:   false,
		Usage:   "don't exit if an error occurs while exporting a page, continue with the remaining pages.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_CONTINUE_ON_ERROR"), altsrctoml.TOML("continue-on-error", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "separate-child-pages",
		Value:   false,
		Usage:   "render every child page into its own file instead of inlining it.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_SEPARATE_CHILD_PAGES"), altsrctoml.TOML("separate-child-pages", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "images-to-base64",
		Value:   false,
		Usage:   "download images and inline them as base64 data URIs instead of URL references.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_IMAGES_TO_BASE64"), altsrctoml.TOML("images-to-base64", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "parse-child-pages",
		Value:   true,
		Usage:   "descend into child pages. When disabled, child pages become reference links.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_PARSE_CHILD_PAGES"), altsrctoml.TOML("parse-child-pages", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.IntFlag{
		Name:    "retry-attempts",
		Value:   3,
		Usage:   "how many times a transient API failure is retried before giving up.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_RETRY_ATTEMPTS"), altsrctoml.TOML("retry-attempts", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.DurationFlag{
		Name:    "rate-limit-delay",
		Value:   500 * time.Millisecond,
		Usage:   "base delay for the exponential backoff between retries.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_RATE_LIMIT_DELAY"), altsrctoml.TOML("rate-limit-delay", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.IntFlag{
		Name:    "max-concurrent-requests",
		Value:   5,
		Usage:   "bound on concurrently running API requests.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_MAX_CONCURRENT_REQUESTS"), altsrctoml.TOML("max-concurrent-requests", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "front-matter",
		Value:   false,
		Usage:   "prepend a YAML front matter header with page metadata to every exported file.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_FRONT_MATTER"), altsrctoml.TOML("front-matter", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "color",
		Value:   "auto",
		Usage:   "display logs in color. Possible values: auto, never.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_COLOR"), altsrctoml.TOML("color", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "set the log level. Possible values: TRACE, DEBUG, INFO, WARNING, ERROR, FATAL.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_LOG_LEVEL"), altsrctoml.TOML("log-level", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       ConfigFilePath(),
		Usage:       "use the specified configuration file.",
		TakesFile:   true,
		Sources:     cli.NewValueSourceChain(cli.EnvVar("NOTION2MD_CONFIG")),
		Destination: &filename,
	},
}
