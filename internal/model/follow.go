// Package model はドメインモデルを定義する。
package model

import "time"

// Follow はユーザー間の有向フォローエッジを表す。
// (UserBeingFollowedID, UserFollowingID) の順序付きペアごとに最大1本。
// AがBをフォローしてもBがAをフォローしたことにはならない。
type Follow struct {
	UserBeingFollowedID int64
	UserFollowingID     int64
	CreatedAt           time.Time
}
