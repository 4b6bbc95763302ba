package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu serializes writes per socket; conn.WriteJSON is not safe for concurrent use.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers a new connection and initializes its write lock
func (cm *ConnectionManager) AddConnection(clientID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[clientID]; exists {
		oldConn.Close()
	}
	cm.connections[clientID] = conn
	cm.writeMu[clientID] = &sync.Mutex{}
}

// RemoveConnection removes a client's connection and cleans up locks
func (cm *ConnectionManager) RemoveConnection(clientID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[clientID]; exists {
		conn.Close()
		delete(cm.connections, clientID)
		delete(cm.writeMu, clientID)
	}
}

// SendMessage sends a JSON message to a specific client
func (cm *ConnectionManager) SendMessage(clientID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[clientID]
	mu, muExists := cm.writeMu[clientID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil // client disconnected, ignore
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

// ping writes a control frame under the same per-client lock as SendMessage.
func (cm *ConnectionManager) ping(clientID string) error {
	cm.mu.RLock()
	conn, exists := cm.connections[clientID]
	mu, muExists := cm.writeMu[clientID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return websocket.ErrCloseSent
	}

	mu.Lock()
	defer mu.Unlock()
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}
