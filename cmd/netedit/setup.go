package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anggasct/netedit"
	"github.com/anggasct/netedit/pkg/config"
	"github.com/anggasct/netedit/pkg/network"
	"github.com/anggasct/netedit/pkg/observers"
	"github.com/anggasct/netedit/pkg/serialize"
	"github.com/charmbracelet/log"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type session struct {
	cfg     *config.Config
	logger  *log.Logger
	net     *netedit.Net
	metrics *observers.MetricsObserver
	before  []byte
}

func setup(configFile string, cliflags map[string]any) (*session, error) {
	k, err := config.Load(configFile, cliflags)
	if err != nil {
		return nil, fmt.Errorf("error generating config blob: %w", err)
	}
	c, err := config.NewConfig(k)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	logger := c.Logger()

	if c.NetworkFile == "" {
		return nil, fmt.Errorf("no network file configured")
	}
	spatial, err := network.Load(c.NetworkFile)
	if err != nil {
		return nil, fmt.Errorf("error loading network: %w", err)
	}
	logger.Debug("network loaded", "file", c.NetworkFile, "edges", len(spatial.EdgeIDs()))

	s := &session{
		cfg:     c,
		logger:  logger,
		metrics: observers.NewMetricsObserver(),
	}
	s.net = netedit.NewNet(spatial,
		netedit.WithLogger(logger),
		netedit.WithUndoLimit(c.UndoLimit),
		netedit.WithStrict(c.Strict),
		netedit.WithObserver(s.metrics),
	)

	if c.ElementsFile != "" {
		if err := s.readElements(c.ElementsFile); err != nil {
			return nil, fmt.Errorf("error loading elements: %w", err)
		}
		logger.Debug("elements loaded", "file", c.ElementsFile, "count", len(s.net.Carriers()))
	}
	// edits are logged only once loading is done
	s.net.AddObserver(observers.NewLoggingObserver(logger))

	s.before, err = serialize.MarshalYAML(s.net)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) readElements(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if isMsgpack(path) {
		return serialize.ReadMsgpack(f, s.net)
	}
	return serialize.ReadYAML(f, s.net)
}

func isMsgpack(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return true
	}
	return false
}

func (s *session) element(tag, id string) (netedit.AttributeCarrier, error) {
	e, ok := s.net.Element(netedit.Tag(tag), id)
	if !ok {
		return nil, fmt.Errorf("no %s with id '%s'", tag, id)
	}
	return e, nil
}

func parseKey(name string) (netedit.Attr, error) {
	key, ok := netedit.ParseAttr(name)
	if !ok {
		return netedit.AttrNone, fmt.Errorf("unknown attribute '%s'", name)
	}
	return key, nil
}

// fixAll repairs every invalid element, one undo group per element
func (s *session) fixAll() error {
	for _, e := range s.net.Carriers() {
		if e.IsElementValid() {
			continue
		}
		if err := e.FixProblem(s.net.UndoList()); err != nil {
			return fmt.Errorf("error fixing %s '%s': %w", e.Tag(), e.ID(), err)
		}
	}
	s.logger.Info("fixed elements", "groups", s.net.UndoList().Len())
	return nil
}

// write stores the edited elements and optionally prints what changed
func (s *session) write(output string, showDiff bool) error {
	after, err := serialize.MarshalYAML(s.net)
	if err != nil {
		return err
	}
	if showDiff {
		fmt.Fprint(os.Stderr, lineDiff(string(s.before), string(after)))
	}

	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if s.cfg.OutputFormat == "msgpack" || (output != "" && isMsgpack(output)) {
		return serialize.WriteMsgpack(w, s.net)
	}
	_, err = io.Copy(w, bytes.NewReader(after))
	return err
}

// lineDiff renders a unified style line diff
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}
