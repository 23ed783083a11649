// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUsernameRequired   = "USERNAME_REQUIRED"
	ErrCodeEmailRequired      = "EMAIL_REQUIRED"
	ErrCodePasswordRequired   = "PASSWORD_REQUIRED"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeMessageEmpty       = "MESSAGE_EMPTY"
	ErrCodeMessageTooLong     = "MESSAGE_TOO_LONG"
	ErrCodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	ErrCodeSelfFollow         = "SELF_FOLLOW"
	ErrCodeAlreadyFollowing   = "ALREADY_FOLLOWING"
	ErrCodeInvalidImageURL    = "INVALID_IMAGE_URL"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewInvalidRequestError は不正なリクエスト形式エラーを生成する。
// JSONボディの構文エラーやパスパラメータの型不一致に使用する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストの形式が正しくありません。",
		Category: "validation",
		Action:   "リクエスト内容を確認して再度お試しください。",
	}
}

// NewUsernameRequiredError はユーザー名未入力エラーを生成する。
func NewUsernameRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameRequired,
		Message:  "ユーザー名を入力してください。",
		Category: "validation",
		Action:   "ユーザー名を指定して再度お試しください。",
	}
}

// NewEmailRequiredError はメールアドレス未入力エラーを生成する。
func NewEmailRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailRequired,
		Message:  "メールアドレスを入力してください。",
		Category: "validation",
		Action:   "メールアドレスを指定して再度お試しください。",
	}
}

// NewPasswordRequiredError はパスワード未入力エラーを生成する。
func NewPasswordRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordRequired,
		Message:  "パスワードを入力してください。",
		Category: "validation",
		Action:   "パスワードを指定して再度お試しください。",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "conflict",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "conflict",
		Action:   "別のメールアドレスを指定するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名不明とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewMessageEmptyError は本文未入力エラーを生成する。
func NewMessageEmptyError() *APIError {
	return &APIError{
		Code:     ErrCodeMessageEmpty,
		Message:  "メッセージ本文を入力してください。",
		Category: "validation",
		Action:   "本文を入力して再度お試しください。",
	}
}

// NewMessageTooLongError は本文長超過エラーを生成する。
func NewMessageTooLongError(length int) *APIError {
	return &APIError{
		Code:     ErrCodeMessageTooLong,
		Message:  fmt.Sprintf("メッセージは%d文字以内で入力してください（現在%d文字）。", MessageMaxLength, length),
		Category: "validation",
		Action:   "本文を短くして再度お試しください。",
	}
}

// NewMessageNotFoundError はメッセージ未検出エラーを生成する。
// 他ユーザーのメッセージへの操作拒否にも同じエラーを使用し、存在の有無を漏らさない。
func NewMessageNotFoundError(messageID int64) *APIError {
	return &APIError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %d", messageID),
		Category: "validation",
		Action:   "メッセージIDを確認してください。",
	}
}

// NewSelfFollowError は自己フォローエラーを生成する。
func NewSelfFollowError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfFollow,
		Message:  "自分自身をフォローすることはできません。",
		Category: "validation",
		Action:   "他のユーザーを指定してください。",
	}
}

// NewAlreadyFollowingError はフォローエッジ重複エラーを生成する。
func NewAlreadyFollowingError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyFollowing,
		Message:  "このユーザーは既にフォローしています。",
		Category: "conflict",
		Action:   "フォロー一覧を確認してください。",
	}
}

// NewInvalidImageURLError は不正なプロフィール画像URLエラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("無効な画像URLです: %s", reason),
		Category: "validation",
		Action:   "http:// または https:// で始まる公開URLを指定してください。",
	}
}
