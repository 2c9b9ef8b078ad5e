package source

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/xerrors"

	"rocketchat-slack-export/internal/domain"
)

// Имена коллекций Rocket.Chat.
const (
	usersCollection    = "users"
	roomsCollection    = "rocketchat_room"
	messagesCollection = "rocketchat_message"
)

// MongoStore реализует интерфейс DocumentStore поверх MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore подключается к MongoDB и проверяет соединение.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, xerrors.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, xerrors.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close разрывает соединение с MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CountUsers возвращает число документов в коллекции пользователей.
func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, usersCollection)
}

// CountRooms возвращает число документов в коллекции комнат.
func (s *MongoStore) CountRooms(ctx context.Context) (int64, error) {
	return s.count(ctx, roomsCollection)
}

// CountMessages возвращает число документов в коллекции сообщений.
func (s *MongoStore) CountMessages(ctx context.Context) (int64, error) {
	return s.count(ctx, messagesCollection)
}

func (s *MongoStore) count(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, xerrors.Errorf("failed to count documents in %s: %w", collection, err)
	}
	return n, nil
}

// UsersByUsername возвращает всех пользователей, отсортированных сервером
// по username по возрастанию.
func (s *MongoStore) UsersByUsername(ctx context.Context) ([]domain.SourceUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, xerrors.Errorf("failed to query %s: %w", usersCollection, err)
	}

	var users []domain.SourceUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, xerrors.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// Rooms возвращает все комнаты без сортировки.
func (s *MongoStore) Rooms(ctx context.Context) ([]domain.SourceRoom, error) {
	cursor, err := s.db.Collection(roomsCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, xerrors.Errorf("failed to query %s: %w", roomsCollection, err)
	}

	var rooms []domain.SourceRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, xerrors.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

// Messages возвращает все сообщения без сортировки (полное сканирование).
func (s *MongoStore) Messages(ctx context.Context) ([]domain.SourceMessage, error) {
	cursor, err := s.db.Collection(messagesCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, xerrors.Errorf("failed to query %s: %w", messagesCollection, err)
	}

	var messages []domain.SourceMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, xerrors.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

// MessagesPage возвращает страницу сообщений, отсортированных сервером
// по метке времени по возрастанию.
func (s *MongoStore) MessagesPage(ctx context.Context, offset, limit int64) ([]domain.SourceMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "ts", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := s.db.Collection(messagesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, xerrors.Errorf("failed to query %s page at offset %d: %w", messagesCollection, offset, err)
	}

	var messages []domain.SourceMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, xerrors.Errorf("failed to decode messages page: %w", err)
	}

	return messages, nil
}
