package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"ormsynth/internal/program"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

// exprSeeds are annotation and value strings of the kind fixtures carry.
var exprSeeds = []string{
	"",
	"Manager",
	"Manager.from_queryset(BookQuerySet)",
	"BaseManager.from_queryset(QS, class_name='Custom')",
	"BookQuerySet.as_manager()",
	"Type[Manager[_T]]",
	"Callable[[int, str], 'Book']",
	"Optional[Union[int, None]]",
	"*args: Any",
	"**kwargs: Any",
	"since: str = ...",
	"QuerySet as QS",
	"request.user",
	"Manager.from_queryset(Q",
	"[[[",
	"'unterminated",
}

func addExprSeeds(f *testing.F) {
	for _, s := range exprSeeds {
		f.Add(s)
	}
}

func addProgramSeeds(f *testing.F) {
	f.Add(clampSeed(program.StubsSource()))
	f.Add([]byte{})
	f.Add([]byte("[[module]]\nname = \"m\"\n"))

	root := filepath.Join("..", "driver", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все *.toml файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
