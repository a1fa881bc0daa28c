package split

import (
	"fmt"
	"io"
	"os"

	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/config"
)

func userDir(userId string) string {
	return "user_" + userId
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

// failureMessage is what an upload row carries after a fatal error; the
// full chain stays in the log.
func failureMessage(err error) string {
	return "error: " + utils.TruncateRunes(err.Error(), config.MessageMaxLen)
}
