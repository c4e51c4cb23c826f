package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the subset of *sns.Client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes to an SNS topic; topic is the topic ARN.
type SNSNotifier struct {
	client SNSAPI
}

func NewSNSNotifier(client SNSAPI) *SNSNotifier {
	return &SNSNotifier{client: client}
}

func (n *SNSNotifier) Publish(ctx context.Context, topic, subject, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topic),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	return err
}
