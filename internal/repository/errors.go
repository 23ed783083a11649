package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = pq.ErrorCode("23505")

// violatedConstraint はerrがunique_violationの場合に違反した制約名を返す。
// ストレージ層の一意制約違反を型付きの競合エラーへ変換するために使用する。
func violatedConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
