package main

import (
    "net/http"
)

func serveChatPage(w http.ResponseWriter) {
    w.Header().Set("Content-Type", "text/html")
    w.WriteHeader(http.StatusOK)
    w.Write([]byte(chat_page))
}

// chat_page is a minimal browser client for the relay's WebSocket endpoint.
const chat_page = `<html>
    <head>
        <title> Chat relay </title>
        <meta charset="utf-8" name="viewport" />

        <style>
            body {
                padding-left: 10%;
                padding-right: 10%;
                font-size: large;
            }
            div {
                display: flex;
                flex-direction: row;
                align-items: baseline;
                margin-bottom: 0.25em;
            }
            label {
                font-size: large;
            }
            input.text {
                margin-left: 1em;
                height: 2em;
                font-size: large;
            }
            input.button {
                height: 2em;
                font-size: large;
            }
            input.textbox {
                width: 90%;
                margin-right: 0.25em;
                margin-top: 0.25em;
                height: 2em;
                font-size: large;
            }
            div.textbox {
                display: block;
                width: 95%;
                height: 75%;
                margin-top: 0.25em;
                overflow-y: scroll;
                border: solid;
                padding: 1em;
            }
        </style>

        <script>
            let ws = null;

            let appendMsg = function(msg) {
                let chat = document.getElementById('chat');
                let p = document.createElement('p');
                p.textContent = msg;
                chat.appendChild(p);
                chat.scrollTo(0, chat.scrollHeight);
            }

            let wsRecv = function(e) {
                appendMsg(e.data);
            }

            let wsClose = function(e) {
                appendMsg('Connection to the relay was closed!');
                ws = null;
            }

            // The two first lines sent to the relay log the client in.
            let wsOpen = function(username, room) {
                return function(e) {
                    ws.send(username);
                    ws.send(room);
                }
            }

            let connect = function() {
                let username = document.getElementById('username').value;
                let room = document.getElementById('room').value;
                if (username == '' || room == '') {
                    return;
                }

                if (ws != null) {
                    ws.close()
                    ws = null;
                }

                appendMsg('Now talking on ' + room + '!');

                ws = new WebSocket('ws://' + window.location.host + '/chat')
                ws.addEventListener('open', wsOpen(username, room))
                ws.addEventListener('message', wsRecv)
                ws.addEventListener('close', wsClose)
            }

            // Messages are echoed back by the relay, so there's no need
            // to print them here.
            let send = function() {
                let mfield = document.getElementById('message');

                if (ws == null || mfield.value == '') {
                    return;
                }

                ws.send(mfield.value);
                mfield.value = '';
            }

            let on_boot = function (e) {
                let mfield = document.getElementById('message');
                mfield.addEventListener('keyup', function (e) {
                    if (e.key == 'Enter') {
                        send();
                    }
                });
            }
            document.addEventListener('DOMContentLoaded', on_boot);
        </script>
    </head>

    <body>
        <div>
            <label for='room'> Room: </label>
            <input class='text' type='text' id='room' name='room'>
        </div>
        <div>
            <label for='username'> Username: </label>
            <input class='text' type='text' id='username' name='username'>
        </div>
        <div>
            <input class='button' onclick="connect();" type="button" value="Connect">
        </div>

        <div class='textbox' id='chat'> </div>

        <div>
            <input class='textbox' type='text' id='message' name='message'>
            <input class='button' onclick="send();" type="button" value="Send">
        </div>
    </body>
</html>`
