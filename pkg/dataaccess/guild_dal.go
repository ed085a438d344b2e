package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Littie6amer/discord-bot-owners/pkg/dataaccess/monitoring"
	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"github.com/Littie6amer/discord-bot-owners/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guildDalName = "guild_dal"

type GuildDal interface {
	// GetGuildData gets the settings document for a guild.
	GetGuildData(ctx context.Context, guildID string) (*entities.GuildData, error)

	// SaveGuildData upserts the whole settings document for a guild.
	SaveGuildData(ctx context.Context, guild *entities.GuildData) error

	// SetField applies an atomic $set at the dotted field path.
	SetField(ctx context.Context, guildID, path string, value any) error

	// SetFieldsIfAbsent applies an atomic $set of every given dotted field
	// path, but only while the guard path does not exist yet. It reports
	// whether the write was applied; false means another writer got there
	// first. The fields land together or not at all.
	SetFieldsIfAbsent(ctx context.Context, guildID, guardPath string, fields map[string]any) (bool, error)

	// UnsetField applies an atomic $unset at the dotted field path. Unsetting
	// an absent field is a no-op, not an error.
	UnsetField(ctx context.Context, guildID, path string) error
}

type guildDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildDal creates a new guild data access layer.
func NewGuildDal(logger *slog.Logger) GuildDal {
	l := logger.With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &guildDal{
		l:      l,
		client: MongoDB,
	}
}

func (g *guildDal) collection() *mongo.Collection {
	return g.client.Database(mongoDatabase).Collection(guildsCollection)
}

func (g *guildDal) GetGuildData(ctx context.Context, guildID string) (*entities.GuildData, error) {
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "get_guild_data", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "get_guild_data", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	guild := new(entities.GuildData)
	if err := g.collection().FindOne(ctx, bson.M{"id": guildID}).Decode(guild); err != nil {
		return nil, fmt.Errorf("error getting guild data: %w", err)
	}
	return guild, nil
}

func (g *guildDal) SaveGuildData(ctx context.Context, guild *entities.GuildData) error {
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "save_guild_data", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "save_guild_data", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := g.collection().UpdateOne(ctx, bson.M{"id": guild.ID}, bson.M{"$set": guild}, opts); err != nil {
		return fmt.Errorf("error saving guild data: %w", err)
	}
	return nil
}

func (g *guildDal) SetField(ctx context.Context, guildID, path string, value any) error {
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "set_field", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "set_field", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	if _, err := g.collection().UpdateOne(ctx, bson.M{"id": guildID}, bson.M{"$set": bson.M{path: value}}); err != nil {
		return fmt.Errorf("error setting field %s: %w", path, err)
	}
	return nil
}

func (g *guildDal) SetFieldsIfAbsent(ctx context.Context, guildID, guardPath string, fields map[string]any) (bool, error) {
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "set_fields_if_absent", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "set_fields_if_absent", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	set := make(bson.M, len(fields))
	for path, value := range fields {
		set[path] = value
	}

	// The filter only matches while the guard field is absent, which makes the
	// check and the writes one atomic operation on the document.
	res, err := g.collection().UpdateOne(ctx,
		bson.M{"id": guildID, guardPath: bson.M{"$exists": false}},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("error reserving field %s: %w", guardPath, err)
	}
	return res.MatchedCount > 0, nil
}

func (g *guildDal) UnsetField(ctx context.Context, guildID, path string) error {
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "unset_field", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "unset_field", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	if _, err := g.collection().UpdateOne(ctx, bson.M{"id": guildID}, bson.M{"$unset": bson.M{path: ""}}); err != nil {
		return fmt.Errorf("error unsetting field %s: %w", path, err)
	}
	return nil
}
