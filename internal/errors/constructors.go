package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

// MarkdownError wraps a markdown core error for one source document.
func MarkdownError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryMarkdown, SeverityError, "markdown conversion failed").
		WithContext("path", path)
}

func TemplateError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template unusable").
		WithContext("path", path)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func FileSystemError(operation, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Runtime errors

func RuntimeError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryRuntime, SeverityError, message)
}

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
