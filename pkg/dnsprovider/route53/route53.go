// Package route53 implements the DNS provider against AWS Route 53.
package route53

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/ftddns/ftddns/pkg/dnsprovider"
)

// Ensure Client implements dnsprovider.Provider
var _ dnsprovider.Provider = (*Client)(nil)

// Client wraps the Route 53 API for the two operations the service uses.
type Client struct {
	api         *route53.Client
	privateOnly bool
}

// New creates a Client using the default AWS credential chain.
// When privateOnly is set, only private hosted zones are listed.
func New(ctx context.Context, region string, privateOnly bool) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return &Client{api: route53.NewFromConfig(cfg), privateOnly: privateOnly}, nil
}

// ListZones returns every hosted zone visible to the configured credentials.
func (c *Client) ListZones(ctx context.Context) ([]dnsprovider.Zone, error) {
	input := &route53.ListHostedZonesInput{}
	if c.privateOnly {
		input.HostedZoneType = types.HostedZoneTypePrivateHostedZone
	}

	var zones []dnsprovider.Zone
	paginator := route53.NewListHostedZonesPaginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing hosted zones: %w", err)
		}
		for _, hz := range page.HostedZones {
			zones = append(zones, dnsprovider.Zone{
				ID:   aws.ToString(hz.Id),
				Name: aws.ToString(hz.Name),
			})
		}
	}

	return zones, nil
}

// UpsertA submits a single UPSERT change for an A record. Repeating the call
// with the same inputs produces the same change and is safe.
func (c *Client) UpsertA(ctx context.Context, zoneID, fqdn string, ip netip.Addr, ttl int64) error {
	change := types.Change{
		Action: types.ChangeActionUpsert,
		ResourceRecordSet: &types.ResourceRecordSet{
			Name: aws.String(fqdn),
			Type: types.RRTypeA,
			TTL:  aws.Int64(ttl),
			ResourceRecords: []types.ResourceRecord{
				{Value: aws.String(ip.String())},
			},
		},
	}

	_, err := c.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch:  &types.ChangeBatch{Changes: []types.Change{change}},
	})
	if err != nil {
		return fmt.Errorf("submitting record change: %w", err)
	}
	return nil
}
