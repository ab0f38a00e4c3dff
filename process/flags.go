package process

import (
	"strings"

	cli "github.com/urfave/cli/v3"

	"swfplay/config"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
	}
}

// DumpFlags are flags understood by Dump.
func DumpFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"},
			Usage: "dump `TYPE` (supported types: " + strings.Join(config.DumpFormatNames(), ", ") + "), overrides configuration"},
		&cli.IntFlag{Name: "payload-bytes", Usage: "show up to `N` bytes of every action payload in text dumps, overrides configuration"},
	}, sourceFlags()...)
}

// PlayFlags are flags understood by Play.
func PlayFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: "execute `N` frames, overrides configuration"},
		&cli.BoolFlag{Name: "loop", Usage: "restart root timeline after its last frame, overrides configuration"},
		&cli.StringSliceFlag{Name: "notify",
			Usage: "deliver `EVENT` to all instances after the last frame, may be repeated (\"mouseDown\", \"keyPress:13\")"},
	}, sourceFlags()...)
}
