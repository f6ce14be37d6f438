package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator           *validator.Validate
	idPattern           *regexp.Regexp
	sqlInjectionPattern *regexp.Regexp
}

// ValidationError はバリデーションエラーの詳細情報
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{
		validator:           v,
		idPattern:           regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`),
		sqlInjectionPattern: regexp.MustCompile(`(?i)(\bunion\s+select\b|\bselect\s+.*\bfrom\b|\binsert\s+into\b|\bdelete\s+from\b|\bdrop\s+table\b|<script|</script>|onload\s*=|onerror\s*=)`),
	}

	// カスタムバリデーションルールを登録
	v.RegisterValidation("safe_text", cv.validateSafeText)
	v.RegisterValidation("no_sql_injection", cv.validateNoSQLInjection)
	v.RegisterValidation("reminder_id", cv.validateReminderID)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	validationErrors := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: cv.generateErrorMessage(fe),
		})
	}

	return ValidationErrors{Errors: validationErrors}
}

// NormalizeInput trims surrounding whitespace and leaves the rest of the text as entered
func (cv *CustomValidator) NormalizeInput(input string) string {
	return strings.TrimSpace(input)
}

// NormalizePtr applies NormalizeInput to an optional field
func (cv *CustomValidator) NormalizePtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := cv.NormalizeInput(*input)
	return &normalized
}

// ValidateID checks a reminder id taken from the URL
func (cv *CustomValidator) ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("ID is required")
	}
	if len(id) > 64 {
		return fmt.Errorf("ID is too long")
	}
	if !cv.idPattern.MatchString(id) {
		return fmt.Errorf("ID may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// カスタムバリデーション関数

func (cv *CustomValidator) validateSafeText(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if cv.sqlInjectionPattern.MatchString(value) {
		return false
	}

	// タブ、改行、復帰以外の制御文字を拒否
	for _, r := range value {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return false
		}
	}

	return true
}

func (cv *CustomValidator) validateNoSQLInjection(fl validator.FieldLevel) bool {
	return !cv.sqlInjectionPattern.MatchString(fl.Field().String())
}

func (cv *CustomValidator) validateReminderID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 未指定の場合はサーバー側で採番する
	}
	return cv.idPattern.MatchString(value)
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s は必須項目です", field)
	case "max":
		return fmt.Sprintf("%s は %s 文字以下で入力してください", field, err.Param())
	case "latitude":
		return fmt.Sprintf("%s は -90 から 90 の範囲で入力してください", field)
	case "longitude":
		return fmt.Sprintf("%s は -180 から 180 の範囲で入力してください", field)
	case "safe_text":
		return fmt.Sprintf("%s に不正な文字が含まれています", field)
	case "no_sql_injection":
		return fmt.Sprintf("%s に危険なパターンが検出されました", field)
	case "reminder_id":
		return fmt.Sprintf("%s は英数字、ハイフン、アンダースコアのみ使用できます", field)
	default:
		return fmt.Sprintf("%s が無効です (値: %v)", field, err.Value())
	}
}
