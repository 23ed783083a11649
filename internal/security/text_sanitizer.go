// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力テキスト（メッセージ本文、プロフィールの
// 自己紹介・所在地）からHTMLを除去し、XSS攻撃からユーザーを保護する。
// bluemondayライブラリのStrictPolicyにより、すべてのタグと属性を除去して
// プレーンテキストのみを通過させる。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェース。
// 保存前に必ず適用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
	// HTMLエンティティはデコードして元の文字に戻す（140文字制限は文字数に対して適用するため）。
	// 前後の空白は除去する。同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しないため、scriptやイベント属性を含む
// あらゆるHTMLがテキストのみに落ちる。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	stripped := s.policy.Sanitize(raw)
	// StrictPolicyは残ったテキストをエスケープするため、
	// 表示用エンコードは出力層に任せてここではデコードして返す。
	return strings.TrimSpace(html.UnescapeString(stripped))
}
