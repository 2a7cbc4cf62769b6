package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{
		botToken: botToken,
		channel:  channel,
	}
}

// NewLogoForTest creates a Logo config for testing purposes
func NewLogoForTest(path, url string, timeout time.Duration) *Logo {
	return &Logo{
		path:    path,
		url:     url,
		timeout: timeout,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(output string) *Storage {
	return &Storage{output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewAssessmentForTest creates an Assessment config for testing purposes
func NewAssessmentForTest(path, lang string) *Assessment {
	return &Assessment{path: path, lang: lang}
}
