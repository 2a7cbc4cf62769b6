package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// AssessmentFile is the TOML representation of an assessment
type AssessmentFile struct {
	Title        string          `toml:"title"`
	Validator    string          `toml:"validator"`
	MaxQuestions int             `toml:"max_questions"`
	Language     string          `toml:"language"`
	Questions    []QuestionEntry `toml:"question"`
}

// QuestionEntry is one [[question]] table
type QuestionEntry struct {
	Text     string `toml:"text"`
	Response string `toml:"response"`
	Weight   int    `toml:"weight"`
}

// Validate checks the file level settings. Question content is validated by
// the domain model after conversion.
func (a *AssessmentFile) Validate() error {
	if a.MaxQuestions < 0 || a.MaxQuestions > model.MaxQuestionsLimit {
		return goerr.Wrap(ErrInvalidConfig, "max_questions out of range", goerr.V("max_questions", a.MaxQuestions))
	}
	if a.Language != "" {
		if _, err := types.ParseLanguage(a.Language); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "unsupported language", goerr.V("language", a.Language))
		}
	}
	return nil
}

// Lang returns the report language of the file, English when unset
func (a *AssessmentFile) Lang() types.Language {
	lang, err := types.ParseLanguage(a.Language)
	if err != nil {
		return types.LanguageEnglish
	}
	return lang
}

// ToModel converts the file into a domain assessment. Responses of questions
// without text are not parsed because those slots are ignored.
func (a *AssessmentFile) ToModel() (*model.Assessment, error) {
	assessment := &model.Assessment{
		Title:     a.Title,
		Validator: a.Validator,
		Questions: make([]model.Question, len(a.Questions)),
	}

	for i, q := range a.Questions {
		assessment.Questions[i] = model.Question{Text: q.Text, Weight: q.Weight}
		if strings.TrimSpace(q.Text) == "" {
			continue
		}

		resp, err := types.ParseResponse(q.Response)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidResponse, "invalid question response",
				goerr.V(QuestionIndexKey, i), goerr.V("response", q.Response))
		}
		assessment.Questions[i].Response = resp
	}

	return assessment, nil
}

// LoadAssessment loads an assessment from a TOML file
func LoadAssessment(path string) (*AssessmentFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "assessment file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read assessment file", goerr.V(ConfigPathKey, path))
	}

	var file AssessmentFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML assessment",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "assessment file validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// Assessment holds the CLI flag pointing at an assessment file
type Assessment struct {
	path string
	lang string
}

// Flags returns CLI flags for assessment loading
func (x *Assessment) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the assessment TOML file",
			Required:    true,
			Sources:     cli.EnvVars("RISKFORM_CONFIG"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Report language (en, pt). Overrides the language of the file",
			Sources:     cli.EnvVars("RISKFORM_LANG"),
			Destination: &x.lang,
		},
	}
}

// Configure loads the assessment file and resolves the report language
func (x *Assessment) Configure() (*model.Assessment, *AssessmentFile, types.Language, error) {
	file, err := LoadAssessment(x.path)
	if err != nil {
		return nil, nil, "", err
	}

	lang := file.Lang()
	if x.lang != "" {
		lang, err = types.ParseLanguage(x.lang)
		if err != nil {
			return nil, nil, "", goerr.Wrap(ErrInvalidConfig, "unsupported language", goerr.V("lang", x.lang))
		}
	}

	assessment, err := file.ToModel()
	if err != nil {
		return nil, nil, "", goerr.Wrap(err, "invalid assessment file", goerr.V(ConfigPathKey, x.path))
	}

	return assessment, file, lang, nil
}
