// Package cli implements studyctl, a command-line client for browsing and
// managing study material without the HTTP service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dalemusser/studyvault/internal/app/browse"
	"github.com/dalemusser/studyvault/internal/app/features/files"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// waitTimeout bounds how long a command waits for a bucket listing.
const waitTimeout = 30 * time.Second

// New returns the studyctl root command.
func New() *cobra.Command {
	opts := DefaultOptions()

	cmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "Browse and manage study material from the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Home, "home", opts.Home, "state directory")
	pf.StringVar(&opts.Profile, "profile", opts.Profile, "selection profile")
	pf.StringVar(&opts.Catalog, "catalog", opts.Catalog, "catalog YAML (blank uses the built-in catalog)")
	pf.StringVar(&opts.Storage, "storage", opts.Storage, "blob backend: badger or s3")
	pf.StringVar(&opts.BadgerPath, "badger-path", opts.BadgerPath, "badger directory (default <home>/blobs)")
	pf.StringVar(&opts.Root, "root", opts.Root, "material root folder")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	addSelect(cmd, &opts)
	addReset(cmd, &opts)
	addShow(cmd, &opts)
	addSubjects(cmd, &opts)
	addFiles(cmd, &opts)
	addUpload(cmd, &opts)
	addRemove(cmd, &opts)
	return cmd
}

// withEnv opens an Env for the duration of fn.
func withEnv(cmd *cobra.Command, opts *Options, fn func(ctx context.Context, e *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := Open(ctx, *opts)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

// render waits for the session to settle and prints its view.
func render(ctx context.Context, cmd *cobra.Command, sess *browse.Session, grouped bool) error {
	wctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()
	if err := sess.WaitIdle(wctx); err != nil {
		return fmt.Errorf("waiting for listing: %w", err)
	}
	printView(cmd.OutOrStdout(), sess.View(grouped))
	return nil
}

func addSelect(topLevel *cobra.Command, opts *Options) {
	cmd := &cobra.Command{
		Use:   "select <level> <value>",
		Short: "Select a year, semester, branch, subject or material type",
		Example: `
studyctl select year 2
studyctl select semester 3
studyctl select branch cse
studyctl select subject "CSA 103"
studyctl select material syllabus
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := selection.ParseAction(args[0], args[1])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				sess, err := e.Session(ctx, false)
				if err != nil {
					return err
				}
				st := sess.Dispatch(a)
				if err := e.States.Save(ctx, e.Profile, st); err != nil {
					return err
				}
				return render(ctx, cmd, sess, false)
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addReset(topLevel *cobra.Command, opts *Options) {
	cmd := &cobra.Command{
		Use:   "reset [level]",
		Short: "Clear a level and everything below it (everything when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := selection.LevelYear
			if len(args) == 1 {
				l, err := selection.ParseLevel(args[0])
				if err != nil {
					return err
				}
				level = l
			}
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				sess, err := e.Session(ctx, false)
				if err != nil {
					return err
				}
				st := sess.Dispatch(selection.Reset(level))
				if st == (selection.State{}) {
					if err := e.States.Delete(ctx, e.Profile); err != nil {
						return err
					}
				} else if err := e.States.Save(ctx, e.Profile, st); err != nil {
					return err
				}
				return render(ctx, cmd, sess, false)
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, opts *Options) {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current selection with its next options or files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				sess, err := e.Session(ctx, false)
				if err != nil {
					return err
				}
				return render(ctx, cmd, sess, grouped)
			})
		},
	}
	cmd.Flags().BoolVar(&grouped, "group", false, "group files by material type")
	topLevel.AddCommand(cmd)
}

func addSubjects(topLevel *cobra.Command, opts *Options) {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects of the selected year, semester and branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				st, _, err := e.States.Load(ctx, e.Profile)
				if err != nil {
					return err
				}
				st = st.Clamp()
				if !st.IsSet(selection.LevelBranch) {
					return errors.New("select a year, semester and branch first")
				}
				printSubjects(cmd.OutOrStdout(), e.Lookup.SubjectsFor(st.Year, st.Semester, st.Branch))
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

// currentBucket loads the profile's selection and requires it to name a
// complete bucket.
func currentBucket(ctx context.Context, e *Env) (models.Bucket, error) {
	st, _, err := e.States.Load(ctx, e.Profile)
	if err != nil {
		return models.Bucket{}, err
	}
	b, ok := st.Clamp().Bucket()
	if !ok {
		return models.Bucket{}, errors.New("select a subject and material type first")
	}
	return b, nil
}

func addFiles(topLevel *cobra.Command, opts *Options) {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List catalog and uploaded files of the selected bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				if _, err := currentBucket(ctx, e); err != nil {
					return err
				}
				sess, err := e.Session(ctx, false)
				if err != nil {
					return err
				}
				wctx, cancel := context.WithTimeout(ctx, waitTimeout)
				defer cancel()
				if err := sess.WaitIdle(wctx); err != nil {
					return err
				}
				printFiles(cmd.OutOrStdout(), sess.View(false).Files)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addUpload(topLevel *cobra.Command, opts *Options) {
	var name string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file into the selected bucket",
		Example: `
studyctl upload ./notes/unit1.pdf
studyctl upload ./scan.pdf --name "End Sem 2023.pdf"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				b, err := currentBucket(ctx, e)
				if err != nil {
					return err
				}
				if _, known := e.Lookup.Subject(b.SubjectCode); !known {
					return fmt.Errorf("subject %q is not in the catalog", b.SubjectCode)
				}

				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				info, err := f.Stat()
				if err != nil {
					return err
				}

				objName := name
				if objName == "" {
					objName = filepath.Base(args[0])
				}
				objName = files.SanitizeFilename(objName)
				objPath := e.Resolver.ObjectPath(b, objName)

				meta, err := e.Resolver.Store().Upload(ctx, objPath, f, info.Size(), files.ContentTypeFor("", objName))
				if err != nil {
					return fmt.Errorf("upload %s: %w", objPath, err)
				}
				e.Log.Info("uploaded", zap.String("path", objPath), zap.Int64("size", meta.Size))
				printFiles(cmd.OutOrStdout(), []models.FileResource{e.Resolver.Resource(b, meta)})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "object name (default: the file's base name)")
	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, opts *Options) {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an uploaded file from the selected bucket",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *Env) error {
				b, err := currentBucket(ctx, e)
				if err != nil {
					return err
				}
				objPath := e.Resolver.ObjectPath(b, args[0])
				if err := e.Resolver.Store().Remove(ctx, objPath); err != nil {
					if errors.Is(err, blobstore.ErrNotFound) {
						return fmt.Errorf("no uploaded file named %q in %s", args[0], b.Key())
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", objPath)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}
