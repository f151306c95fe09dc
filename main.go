package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"textcore/buffer"
	"textcore/clipboardx"
	"textcore/config"
	"textcore/filewatch"
	"textcore/killring"
	"textcore/session"
)

func main() {
	pattern := flag.String("search", "", "print every match of `regexp` in each file")
	copyMatches := flag.Bool("copy", false, "push each match onto the kill ring (and clipboard)")
	watch := flag.Bool("watch", false, "keep running and report external changes to the files")
	restore := flag.Bool("restore", false, "reopen the files of the last session in this directory")
	recoverBackups := flag.Bool("recover", false, "write unsaved work from backups back to the files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: textcore [-search regexp [-copy]] [-watch] [-recover] [-restore | file...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 && !*restore {
		flag.Usage()
		os.Exit(2)
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	ring := killring.New(cfg.KillRingMax)
	if cfg.UseClipboard {
		ring.SetClipboard(clipboardx.New())
	}
	opts := append(cfg.BufferOptions(), buffer.WithKillRing(ring))

	var buffers []*buffer.Buffer
	if flag.NArg() == 0 {
		buffers, err = session.Restore(wd, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, path := range flag.Args() {
		b, err := buffer.Open(path, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		buffers = append(buffers, b)
	}

	for _, b := range buffers {
		if *recoverBackups {
			if err := recoverBuffer(b); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
		describe(b)
		if *pattern != "" {
			if err := printMatches(b, *pattern, *copyMatches); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	if *watch || cfg.WatchFiles {
		if err := watchBuffers(wd, buffers); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := session.Save(wd, buffers); err != nil {
		fmt.Fprintf(os.Stderr, "session: %v\n", err)
	}
}

// recoverBuffer loads the backup of b, if any, and saves it to the file.
func recoverBuffer(b *buffer.Buffer) error {
	ok, err := session.RecoverBackup(b)
	if err != nil || !ok {
		return err
	}
	if err := b.Save(); err != nil {
		return err
	}
	session.CleanBackup(b.FileName)
	fmt.Printf("%s: recovered from backup\n", b.FileName)
	return nil
}

func describe(b *buffer.Buffer) {
	var lines int
	b.SavePoint(func() error {
		b.EndOfBuffer()
		lines = b.CurrentLine()
		if b.BeginningOfLineP() && lines > 1 {
			lines--
		}
		return nil
	})
	lang := b.Language
	if lang == "" {
		lang = "-"
	}
	fmt.Printf("%s\t%s\t%s\t%s\t%d bytes\t%d lines\n",
		b.FileName, b.FileEncoding, b.FileFormat, lang, b.Size(), lines)
}

func printMatches(b *buffer.Buffer, pattern string, copyMatches bool) error {
	return b.SavePoint(func() error {
		b.BeginningOfBuffer()
		return searchAll(b, pattern, copyMatches)
	})
}

func searchAll(b *buffer.Buffer, pattern string, copyMatches bool) error {
	for {
		err := b.ReSearchForward(pattern)
		if errors.Is(err, buffer.ErrSearchFailed) {
			return nil
		}
		if err != nil {
			return err
		}
		start, _ := b.MatchBeginning(0)
		end := b.Point()
		text, _ := b.MatchString(0)

		if err := b.GotoChar(start); err != nil {
			return err
		}
		fmt.Printf("%s:%d:%d: %s\n", b.FileName, b.CurrentLine(), b.CurrentColumn()+1, text)
		if copyMatches {
			if err := b.CopyRegion(start, end, false); err != nil {
				return err
			}
		}
		if err := b.GotoChar(end); err != nil {
			return err
		}
		if start == end {
			if b.EndOfBufferP() {
				return nil
			}
			if err := b.ForwardChar(1); err != nil {
				return err
			}
		}
	}
}

func watchBuffers(wd string, buffers []*buffer.Buffer) error {
	w, err := filewatch.New(filewatch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, b := range buffers {
		if err := w.Add(b.FileName); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(session.BackupInterval)
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := session.SaveBackups(wd, buffers); err != nil {
				fmt.Fprintf(os.Stderr, "backup: %v\n", err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			for _, b := range buffers {
				res, err := filewatch.Apply(b, ev)
				if err != nil {
					return err
				}
				if res != filewatch.Ignored {
					fmt.Printf("%s: %s\n", b.FileName, res)
					if res == filewatch.Reloaded {
						describe(b)
					}
				}
			}
		}
	}
}
