package host

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"
)

// NativeDialogs opens the desktop's own file chooser.
type NativeDialogs struct{}

func (NativeDialogs) ShowOpenDialog(ctx context.Context, opts FileDialogOptions) ([]string, error) {
	options := []zenity.Option{zenity.Context(ctx)}
	if opts.Title != "" {
		options = append(options, zenity.Title(opts.Title))
	}
	if opts.OpenLabel != "" {
		options = append(options, zenity.OKLabel(opts.OpenLabel))
	}
	if opts.StartDir != "" {
		options = append(options, zenity.Filename(opts.StartDir))
	}
	if opts.CanSelectFolders && !opts.CanSelectFiles {
		options = append(options, zenity.Directory())
	}

	var paths []string
	var err error
	if opts.CanSelectMany {
		paths, err = zenity.SelectFileMultiple(options...)
	} else {
		var path string
		path, err = zenity.SelectFile(options...)
		if path != "" {
			paths = []string{path}
		}
	}

	if errors.Is(err, zenity.ErrCanceled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return paths, nil
}
