package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientPage serves the built-in chat client. Text sends render
// optimistically before any server confirmation; upload-derived messages
// are rendered only when the broadcast comes back.
func (h *Handler) ClientPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(clientPage))
}

const clientPage = `<!DOCTYPE html>
<html>
<head>
    <title>Group Chat</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; display: flex; flex-direction: column; height: 100vh; }
        #status-bar { background: #333; color: #fff; padding: 4px 10px; display: none; }
        #status-bar.visible { display: block; }
        #message-container { flex: 1; overflow-y: scroll; padding: 10px; background: #f4f4f8; }
        .message { margin: 6px 0; max-width: 70%; }
        .message-sent { margin-left: auto; text-align: right; }
        .message-bubble { display: inline-block; background: #fff; border-radius: 8px; padding: 6px 10px; box-shadow: 0 1px 2px rgba(0,0,0,.15); }
        .message-sent .message-bubble { background: #d2f8d2; }
        .message-sender { font-size: 12px; font-weight: bold; color: #555; }
        .message-meta { font-size: 10px; color: #999; margin-left: 6px; }
        .chat-image { max-width: 240px; border-radius: 6px; display: block; }
        #composer { display: flex; padding: 8px; border-top: 1px solid #ddd; gap: 6px; }
        #message-input { flex: 1; padding: 8px; }
        button { padding: 8px 14px; background: #4a76a8; color: #fff; border: none; cursor: pointer; border-radius: 4px; }
        #anonymous-toggle.active { background: #a84a4a; }
    </style>
</head>
<body>
    <div id="status-bar">You are appearing as Anonymous</div>
    <div id="message-container"></div>
    <div id="composer">
        <input type="text" id="message-input" placeholder="Type a message...">
        <button id="send-button">Send</button>
        <button id="attach-btn" title="Attach file">&#128206;</button>
        <button id="camera-btn" title="Send image">&#128247;</button>
        <button id="anonymous-toggle" title="Toggle anonymous">A</button>
        <input type="file" id="file-input" style="display:none">
    </div>

    <script>
        const messageContainer = document.getElementById('message-container');
        const messageInput = document.getElementById('message-input');
        const sendButton = document.getElementById('send-button');
        const anonymousToggle = document.getElementById('anonymous-toggle');
        const statusBar = document.getElementById('status-bar');
        const fileInput = document.getElementById('file-input');
        const cameraBtn = document.getElementById('camera-btn');
        const attachBtn = document.getElementById('attach-btn');

        let isAnonymous = false;
        const params = new URLSearchParams(window.location.search);
        const currentUserName = params.get('name') || prompt('Your name?') || 'Guest';

        const proto = window.location.protocol === 'https:' ? 'wss' : 'ws';
        const ws = new WebSocket(proto + '://' + window.location.host + '/ws?name=' + encodeURIComponent(currentUserName));

        const escapeHtml = (text) => {
            const div = document.createElement('div');
            div.textContent = text;
            return div.innerHTML;
        };

        const linkify = (text) => {
            const urlRegex = /(\b(https?|ftp|file):\/\/[-A-Z0-9+&@#\/%?=~_|!:,.;]*[-A-Z0-9+&@#\/%=~_|])/ig;
            return escapeHtml(text).replace(urlRegex, url => '<a href="' + url + '" target="_blank">' + url + '</a>');
        };

        const appendMessage = (data) => {
            const time = new Date(data.created_at).toLocaleTimeString([], { hour: '2-digit', minute: '2-digit', hour12: true });
            const isSentByMe = !data.is_anonymous && data.sender_name === currentUserName;
            const displayName = data.is_anonymous ? 'Anonymous' : data.sender_name;

            let content = '';
            switch (data.message_type) {
                case 'image':
                    content = '<img src="' + data.file_url + '" alt="Image" class="chat-image">';
                    break;
                case 'file':
                    content = '<a href="' + data.file_url + '" target="_blank" download>' + escapeHtml(data.message_text || 'Download File') + '</a>';
                    break;
                default:
                    content = '<span class="message-text">' + linkify(data.message_text) + '</span>';
            }

            const wrapper = document.createElement('div');
            wrapper.className = 'message ' + (isSentByMe ? 'message-sent' : 'message-received');
            wrapper.innerHTML =
                '<div class="message-bubble">' +
                (!isSentByMe ? '<div class="message-sender">' + escapeHtml(displayName) + '</div>' : '') +
                '<div class="message-content">' + content +
                '<span class="message-meta">' + time + (isSentByMe ? ' &#10003;&#10003;' : '') + '</span></div></div>';
            messageContainer.appendChild(wrapper);
            messageContainer.scrollTop = messageContainer.scrollHeight;
        };

        const sendTextMessage = () => {
            const text = messageInput.value.trim();
            if (!text || ws.readyState !== WebSocket.OPEN) return;
            ws.send(JSON.stringify({ event: 'chat message', payload: { text, isAnonymous } }));
            appendMessage({
                sender_name: isAnonymous ? 'Anonymous' : currentUserName,
                message_text: text,
                is_anonymous: isAnonymous,
                message_type: 'text',
                created_at: new Date()
            });
            messageInput.value = '';
            messageInput.focus();
        };

        const handleFileUpload = (file) => {
            if (!file) return;
            const formData = new FormData();
            formData.append('file', file);
            formData.append('senderName', currentUserName);
            formData.append('isAnonymous', isAnonymous);
            fetch('/upload', { method: 'POST', body: formData })
                .then(response => response.json())
                .then(data => console.log('Upload success:', data))
                .catch(error => console.error('Upload error:', error));
        };

        sendButton.addEventListener('click', sendTextMessage);
        messageInput.addEventListener('keypress', (e) => e.key === 'Enter' && sendTextMessage());

        cameraBtn.addEventListener('click', () => {
            fileInput.setAttribute('accept', 'image/*');
            fileInput.click();
        });
        attachBtn.addEventListener('click', () => {
            fileInput.removeAttribute('accept');
            fileInput.click();
        });
        fileInput.addEventListener('change', () => {
            handleFileUpload(fileInput.files[0]);
            fileInput.value = '';
        });

        anonymousToggle.addEventListener('click', () => {
            isAnonymous = !isAnonymous;
            anonymousToggle.classList.toggle('active', isAnonymous);
            statusBar.classList.toggle('visible', isAnonymous);
        });

        ws.onmessage = (e) => {
            const frame = JSON.parse(e.data);
            if (frame.event === 'load history') {
                messageContainer.innerHTML = '';
                frame.payload.forEach(msg => appendMessage(msg));
            } else if (frame.event === 'chat message') {
                appendMessage(frame.payload);
            }
        };
    </script>
</body>
</html>`
