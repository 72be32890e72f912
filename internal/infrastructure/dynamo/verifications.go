package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/storefront-api/internal/domain"
)

// cooldownSK is the sort key of the per-phone issue-cooldown marker. It lives
// in the verifications table under the same partition key. The leading '#'
// sorts before every ULID, so it never shadows a real record in descending
// queries, and the verified/superseded filter skips it anyway.
const cooldownSK = "#cooldown"

// VerificationRepo manages phone verification records.
// PK: phone, SK: verification_id (ULID — descending query gives newest first).
//
// The attempt counter and the verified flag are only ever changed through
// conditional updates, so the attempt cap and the single-use guarantee hold
// even under concurrent validation calls for the same phone.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.PhoneVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ClaimCooldown atomically claims the right to issue a code for phone.
// The marker item is written only when absent or already lapsed; a failed
// condition means another code was issued within the cooldown window.
func (r *VerificationRepo) ClaimCooldown(ctx context.Context, phone string, now time.Time, cooldown time.Duration) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"phone":           &types.AttributeValueMemberS{Value: phone},
			"verification_id": &types.AttributeValueMemberS{Value: cooldownSK},
			"expires_at":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Add(cooldown).Unix())},
		},
		ConditionExpression: aws.String("attribute_not_exists(verification_id) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("code already issued within cooldown: %w", domain.ErrRateLimited)
	}
	return err
}

// ReleaseCooldown drops the cooldown marker. Called when issuance fails after
// the claim (SMS dispatch error), so the caller may retry immediately.
func (r *VerificationRepo) ReleaseCooldown(ctx context.Context, phone string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("phone", phone, "verification_id", cooldownSK),
	})
	return err
}

// LatestUnverified returns the most recent record for phone that is neither
// verified nor superseded. Expiry and attempt-cap checks belong to the caller;
// this is a pure data-access lookup.
func (r *VerificationRepo) LatestUnverified(ctx context.Context, phone string) (*domain.PhoneVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("phone = :p"),
		FilterExpression:       aws.String("verified = :false AND superseded = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":     &types.AttributeValueMemberS{Value: phone},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no outstanding verification for phone: %w", domain.ErrNotFound)
	}
	var v domain.PhoneVerification
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// IncrementAttempts adds one failed attempt. The update is conditional on the
// counter still being below maxAttempts and the record still being live, so
// two racing mismatches can never push the counter past the cap.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, phone, verificationID string, maxAttempts int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("phone", phone, "verification_id", verificationID),
		UpdateExpression:    aws.String("ADD attempts :one"),
		ConditionExpression: aws.String("attempts < :max AND verified = :false AND superseded = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":   &types.AttributeValueMemberN{Value: "1"},
			":max":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", maxAttempts)},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("attempt cap reached: %w", domain.ErrAttemptsExceeded)
	}
	return err
}

// MarkVerified flips verified false→true exactly once. A failed condition
// means the record was already consumed, superseded or locked out — the code
// can never produce a second success.
func (r *VerificationRepo) MarkVerified(ctx context.Context, phone, verificationID string, maxAttempts int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("phone", phone, "verification_id", verificationID),
		UpdateExpression:    aws.String("SET verified = :true"),
		ConditionExpression: aws.String("verified = :false AND superseded = :false AND attempts < :max"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":false": &types.AttributeValueMemberBOOL{Value: false},
			":max":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", maxAttempts)},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("verification already consumed: %w", domain.ErrNotFound)
	}
	return err
}

// MarkSuperseded retires an older outstanding record when a newer code is
// issued, so "latest" is an explicit state rather than a query-time ordering.
func (r *VerificationRepo) MarkSuperseded(ctx context.Context, phone, verificationID string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldSuperseded: true})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("phone", phone, "verification_id", verificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// Delete removes a record outright. Used to roll back an insert when the SMS
// dispatch fails, so no validatable record is left behind for an unsent code.
func (r *VerificationRepo) Delete(ctx context.Context, phone, verificationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("phone", phone, "verification_id", verificationID),
	})
	return err
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
