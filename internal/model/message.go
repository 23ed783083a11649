// Package model はドメインモデルを定義する。
package model

import "time"

// MessageMaxLength はメッセージ本文の最大文字数（rune単位）。
const MessageMaxLength = 140

// Message はユーザーが投稿した短文メッセージ（warble）を表す。
// 作成後は本文を変更しない。作者の削除時にはCASCADE削除される。
type Message struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
