package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// initiateAuthAPI is the single user pool call the client makes.
type initiateAuthAPI interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

type AWSClient struct {
	api          initiateAuthAPI
	clientID     string
	clientSecret string
}

func NewAWSClient(ctx context.Context, region, clientID, clientSecret string) (*AWSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSClient(cip.NewFromConfig(cfg), clientID, clientSecret), nil
}

func newAWSClient(api initiateAuthAPI, clientID, clientSecret string) *AWSClient {
	return &AWSClient{api: api, clientID: clientID, clientSecret: clientSecret}
}

func (c *AWSClient) Login(ctx context.Context, input LoginInput) (Tokens, error) {
	return c.initiateAuth(ctx, types.AuthFlowTypeUserPasswordAuth, input.Email, map[string]string{
		"USERNAME": input.Email,
		"PASSWORD": input.Password,
	})
}

func (c *AWSClient) RefreshTokens(ctx context.Context, input RefreshInput) (Tokens, error) {
	return c.initiateAuth(ctx, types.AuthFlowTypeRefreshTokenAuth, input.Email, map[string]string{
		"REFRESH_TOKEN": input.RefreshToken,
	})
}

func (c *AWSClient) initiateAuth(ctx context.Context, flow types.AuthFlowType, username string, params map[string]string) (Tokens, error) {
	if c.clientSecret != "" {
		params["SECRET_HASH"] = SecretHash(username, c.clientID, c.clientSecret)
	}

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       aws.String(c.clientID),
		AuthFlow:       flow,
		AuthParameters: params,
	})
	if err != nil {
		return Tokens{}, mapAWSError(err)
	}
	if out.AuthenticationResult == nil {
		// challenges such as NEW_PASSWORD_REQUIRED are not supported
		return Tokens{}, fmt.Errorf("%w: challenge %s", ErrChallengeRequired, out.ChallengeName)
	}

	r := out.AuthenticationResult
	return Tokens{
		IDToken:      aws.ToString(r.IdToken),
		AccessToken:  aws.ToString(r.AccessToken),
		RefreshToken: aws.ToString(r.RefreshToken),
		ExpiresIn:    r.ExpiresIn,
		TokenType:    aws.ToString(r.TokenType),
	}, nil
}

var apiErrorCodes = map[string]error{
	"UserNotFoundException":          ErrUserNotFound,
	"UserNotConfirmedException":      ErrUserNotConfirmed,
	"NotAuthorizedException":         ErrNotAuthorized,
	"TooManyRequestsException":       ErrTooManyRequests,
	"PasswordResetRequiredException": ErrPasswordResetRequired,
	"InvalidParameterException":      ErrInvalidParameter,
}

// mapAWSError converts SDK errors into the package's sentinel errors.
func mapAWSError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("cognito: %w", err)
	}
	if sentinel, ok := apiErrorCodes[apiErr.ErrorCode()]; ok {
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), sentinel)
	}
	return fmt.Errorf("cognito %s: %w", apiErr.ErrorCode(), err)
}

var _ Client = (*AWSClient)(nil)
