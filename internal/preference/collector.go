package preference

import (
	"io"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// Prompter asks single questions. SurveyPrompter is the terminal implementation.
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter renders questions with survey on a terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter prompts on in/out; stderr receives survey's error output.
func NewSurveyPrompter(in terminal.FileReader, out terminal.FileWriter, stderr io.Writer) *SurveyPrompter {
	return &SurveyPrompter{opts: []survey.AskOpt{
		survey.WithStdio(in, out, stderr),
		survey.WithIcons(func(icons *survey.IconSet) {
			icons.SelectFocus.Text = "▸"
			icons.SelectFocus.Format = "yellow"
		}),
	}}
}

func (s *SurveyPrompter) Select(message string, options []string, def string) (answer string, err error) {
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		Default:  def,
		PageSize: 15,
	}
	err = survey.AskOne(prompt, &answer, s.opts...)
	return answer, err
}

func (s *SurveyPrompter) Input(message, def string) (answer string, err error) {
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	err = survey.AskOne(prompt, &answer, s.opts...)
	return answer, err
}

func (s *SurveyPrompter) Confirm(message string, def bool) (answer bool, err error) {
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	err = survey.AskOne(prompt, &answer, s.opts...)
	return answer, err
}

// Collector asks for preferences one axis at a time.
type Collector struct {
	prompter Prompter
	warn     func(format string, args ...any)
}

// NewCollector asks through p. warn receives notes about answers that were replaced
// by a default; nil discards them.
func NewCollector(p Prompter, warn func(format string, args ...any)) *Collector {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Collector{prompter: p, warn: warn}
}

// Collect prompts for every axis, the title text, the adult filter and the result count.
// Every question starts at the matching field of defaults, so values already given on
// the command line only need confirming. defaults.TopN is the suggested result count.
func (c *Collector) Collect(defaults domain.Preferences) (p domain.Preferences, err error) {
	var v string
	if v, err = c.choose("length", string(defaults.Length)); err != nil {
		return p, err
	}
	p.Length = domain.Length(v)
	if v, err = c.choose("age", string(defaults.Age)); err != nil {
		return p, err
	}
	p.Age = domain.Age(v)
	if v, err = c.choose("rating", string(defaults.Rating)); err != nil {
		return p, err
	}
	p.Rating = domain.Rating(v)
	if v, err = c.choose("popularity", string(defaults.Popularity)); err != nil {
		return p, err
	}
	p.Popularity = domain.Popularity(v)
	if v, err = c.choose("language", defaults.Language); err != nil {
		return p, err
	}
	p.Language = v

	if p.Text, err = c.prompter.Input("Title words (optional):", defaults.Text); err != nil {
		return p, errors.Wrap(err, "ask title words")
	}
	p.Text = strings.TrimSpace(p.Text)

	if p.IncludeAdult, err = c.prompter.Confirm("Include adult titles?", defaults.IncludeAdult); err != nil {
		return p, errors.Wrap(err, "ask adult filter")
	}

	p.TopN = defaults.TopN
	def := ""
	if defaults.TopN > 0 {
		def = strconv.Itoa(defaults.TopN)
	}
	var answer string
	if answer, err = c.prompter.Input("How many results?", def); err != nil {
		return p, errors.Wrap(err, "ask result count")
	}
	answer = strings.TrimSpace(answer)
	if answer != "" && answer != def {
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n <= 0 {
			c.warn("%q is not a positive number, keeping %s", answer, orDefault(def))
		} else {
			p.TopN = n
		}
	}
	return p, nil
}

// choose offers the canonical values of axis. A default that names no value is
// reported and replaced by none.
func (c *Collector) choose(axis, def string) (value string, err error) {
	def, parseErr := canonical(axis, def)
	if parseErr != nil {
		c.warn("%v, starting from none", parseErr)
	}
	message := strings.ToUpper(axis[:1]) + axis[1:] + ":"
	var answer string
	if answer, err = c.prompter.Select(message, Choices[axis], def); err != nil {
		return "", errors.Wrapf(err, "ask %s", axis)
	}
	if value, parseErr = canonical(axis, answer); parseErr != nil {
		c.warn("%v, using none", parseErr)
	}
	return value, nil
}

func orDefault(def string) string {
	if def == "" {
		return "the default"
	}
	return def
}
