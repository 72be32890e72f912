package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/storefront-api/internal/domain"
)

// ThemeRepo stores the storefront theme settings (a single record per shop).
type ThemeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewThemeRepo(client *dynamodb.Client, tableName string) *ThemeRepo {
	return &ThemeRepo{client: client, tableName: tableName}
}

func (r *ThemeRepo) Get(ctx context.Context, themeID string) (*domain.Theme, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("theme_id", themeID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("theme not found: %w", domain.ErrNotFound)
	}
	var t domain.Theme
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ThemeRepo) Put(ctx context.Context, t *domain.Theme) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ThemeRepo) Update(ctx context.Context, themeID string, updates map[string]interface{}) error {
	// First write creates the record.
	if _, err := r.Get(ctx, themeID); errors.Is(err, domain.ErrNotFound) {
		if err := r.Put(ctx, &domain.Theme{ThemeID: themeID, UpdatedAt: time.Now().UTC()}); err != nil {
			return err
		}
	}
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("theme_id", themeID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
