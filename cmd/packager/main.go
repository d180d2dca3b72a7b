// Command packager bundles a .gbm movie and its .gbs soundtrack into a
// playable image: an optional player ROM, padded to a 256-byte boundary,
// followed by a GBFS archive holding movie.gbm and movie.gbs.
//
// Usage:
//
//	packager input.gbm input.gbs              -> generates input.gba
//	packager output.gba input.gbm input.gbs   -> explicit output name
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ausar/archive"
)

func main() {
	playerPath := flag.String("player", "", "Player ROM to embed ahead of the archive.")
	flag.Parse()

	var outputPath, gbmPath, gbsPath string

	switch flag.NArg() {
	case 2:
		// Auto mode: two input files, determine which is which.
		for _, arg := range flag.Args() {
			switch {
			case endsWithFold(arg, ".gbm"):
				gbmPath = arg
			case endsWithFold(arg, ".gbs"):
				gbsPath = arg
			}
		}
		if gbmPath == "" || gbsPath == "" {
			fatalf("need one .gbm and one .gbs file")
		}
		outputPath = uniquePath(replaceExt(gbmPath, ".gba"))
	case 3:
		outputPath = flag.Arg(0)
		gbmPath = flag.Arg(1)
		gbsPath = flag.Arg(2)
	default:
		fatalf("usage: packager [-player rom.gba] in.gbm in.gbs\n       packager [-player rom.gba] out.gba in.gbm in.gbs")
	}

	gbm, err := os.ReadFile(gbmPath)
	if err != nil {
		fatalf("read %s: %v", gbmPath, err)
	}
	gbs, err := os.ReadFile(gbsPath)
	if err != nil {
		fatalf("read %s: %v", gbsPath, err)
	}

	fs, err := archive.Build([]archive.File{
		{Name: "movie.gbm", Data: gbm},
		{Name: "movie.gbs", Data: gbs},
	})
	if err != nil {
		fatalf("build archive: %v", err)
	}

	var image []byte
	if *playerPath != "" {
		rom, err := os.ReadFile(*playerPath)
		if err != nil {
			fatalf("read %s: %v", *playerPath, err)
		}
		image = append(image, rom...)
		if pad := (256 - len(image)%256) % 256; pad > 0 {
			image = append(image, make([]byte, pad)...)
		}
	}
	image = append(image, fs...)

	if err := os.WriteFile(outputPath, image, 0o644); err != nil {
		fatalf("write %s: %v", outputPath, err)
	}
	fmt.Printf("Created: %s (%d bytes)\n", outputPath, len(image))
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func endsWithFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

func replaceExt(path, ext string) string {
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		return path[:dot] + ext
	}
	return path + ext
}

// uniquePath appends _1, _2, ... until the name does not collide.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	base := path
	ext := ""
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		base, ext = path[:dot], path[dot:]
	}
	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
	return path
}
